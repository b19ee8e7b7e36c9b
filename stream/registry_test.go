package stream

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type fakeToken struct {
	mqtt.Token
	err     error
	timeout bool
}

func (t *fakeToken) Wait() bool                     { return !t.timeout }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if !t.timeout {
		close(ch)
	}
	return ch
}

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakePublisher struct {
	token *fakeToken

	mu       sync.Mutex
	messages []published
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.mu.Lock()
	p.messages = append(p.messages, published{topic, qos, payload.([]byte)})
	p.mu.Unlock()
	if p.token == nil {
		return &fakeToken{}
	}
	return p.token
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

func subjectMessage(t *testing.T, m SubjectMessage) mqtt.Message {
	t.Helper()
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	return &fakeMessage{topic: "labeltx/subjects", payload: b}
}

func TestRegistryJoinAndLeave(t *testing.T) {
	r := NewMqttRegistry(DefaultConfig(), &fakePublisher{}, zaptest.NewLogger(t))
	var departed []string
	r.OnDepart(func(key string) { departed = append(departed, key) })

	r.handleSubjectMessages(nil, subjectMessage(t, SubjectMessage{Type: MessageJoin, ID: "p2", Name: "Zed"}))
	r.handleSubjectMessages(nil, subjectMessage(t, SubjectMessage{Type: MessageJoin, ID: "p1", Name: "Steve"}))

	subjects := r.Subjects()
	if len(subjects) != 2 || subjects[0].Key() != "p1" || subjects[1].Key() != "p2" {
		t.Fatalf("Subjects() = %v", subjects)
	}
	if got := subjects[0].Label(); got != "FancyItem | Steve" {
		t.Errorf("Label() = %q", got)
	}

	// Joining again renames without adding a second subject.
	r.handleSubjectMessages(nil, subjectMessage(t, SubjectMessage{Type: MessageJoin, ID: "p1", Name: "Alex"}))
	subjects = r.Subjects()
	if len(subjects) != 2 || subjects[0].Label() != "FancyItem | Alex" {
		t.Errorf("after rename Subjects() = %v", subjects)
	}

	r.handleSubjectMessages(nil, subjectMessage(t, SubjectMessage{Type: MessageLeave, ID: "p1"}))
	r.handleSubjectMessages(nil, subjectMessage(t, SubjectMessage{Type: MessageLeave, ID: "nobody"}))
	if len(r.Subjects()) != 1 {
		t.Errorf("Subjects() = %v after leave", r.Subjects())
	}
	if len(departed) != 1 || departed[0] != "p1" {
		t.Errorf("departed = %v, want [p1]", departed)
	}
}

func TestRegistryIgnoresBadMessages(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := NewMqttRegistry(DefaultConfig(), &fakePublisher{}, zap.New(core))

	r.handleSubjectMessages(nil, &fakeMessage{topic: "labeltx/subjects", payload: []byte("{not json")})
	r.handleSubjectMessages(nil, subjectMessage(t, SubjectMessage{Type: MessageJoin}))
	r.handleSubjectMessages(nil, subjectMessage(t, SubjectMessage{Type: "wave", ID: "p1"}))

	if len(r.Subjects()) != 0 {
		t.Errorf("Subjects() = %v, want none", r.Subjects())
	}
	if logs.Len() != 3 {
		t.Errorf("logged %d warnings, want 3", logs.Len())
	}
}

func TestRegistryPublishesJSONFrames(t *testing.T) {
	p := &fakePublisher{}
	r := NewMqttRegistry(DefaultConfig(), p, zaptest.NewLogger(t))
	r.Join("p1", "Al")

	f := NewFrame(r.Subjects()[0].Label(), DefaultBounceStops(), Bold)
	if err := r.Subjects()[0].Deliver(f); err != nil {
		t.Fatalf("Deliver() = %v", err)
	}

	if len(p.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(p.messages))
	}
	msg := p.messages[0]
	if msg.topic != "labeltx/frames/p1" {
		t.Errorf("topic = %q", msg.topic)
	}

	var decoded struct {
		Bold  bool `json:"bold"`
		Extra []struct {
			Text  string `json:"text"`
			Color string `json:"color"`
		} `json:"extra"`
	}
	if err := json.Unmarshal(msg.payload, &decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.Bold || len(decoded.Extra) != len("FancyItem | Al") {
		t.Errorf("payload = %s", msg.payload)
	}
	if last := decoded.Extra[len(decoded.Extra)-1]; last.Text != "l" || last.Color != Around.Hex() {
		t.Errorf("last glyph = %+v, want l in %s", last, Around.Hex())
	}
}

func TestRegistryPublishesBinaryFrames(t *testing.T) {
	c := DefaultConfig()
	c.Animation.Encoding = EncodingBinary
	c.Mqtt.Qos = 1
	p := &fakePublisher{}
	r := NewMqttRegistry(c, p, zaptest.NewLogger(t))
	r.Join("p1", "Al")

	f := NewFrame("Al", DefaultBounceStops(), Bold)
	if err := r.Subjects()[0].Deliver(f); err != nil {
		t.Fatalf("Deliver() = %v", err)
	}

	want, _ := f.MarshalBinary()
	if got := p.messages[0]; string(got.payload) != string(want) || got.qos != 1 {
		t.Errorf("published %+v, want qos 1 payload %v", got, want)
	}
}

func TestRegistryDeliveryErrors(t *testing.T) {
	brokerErr := errors.New("not connected")
	tests := []struct {
		name  string
		token *fakeToken
		want  error
	}{
		{"timeout", &fakeToken{timeout: true}, ErrPublishTimeout},
		{"broker error", &fakeToken{err: brokerErr}, brokerErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewMqttRegistry(DefaultConfig(), &fakePublisher{token: tt.token}, zaptest.NewLogger(t))
			r.Join("p1", "Al")
			err := r.Subjects()[0].Deliver(NewFrame("Al", nil, 0))
			if !errors.Is(err, tt.want) {
				t.Errorf("Deliver() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegistryDrivesScheduler(t *testing.T) {
	p := &fakePublisher{}
	r := NewMqttRegistry(DefaultConfig(), p, zaptest.NewLogger(t))
	newAnimation, err := DefaultConfig().AnimationFactory()
	if err != nil {
		t.Fatal(err)
	}
	s := NewScheduler(r, newAnimation, Bold, time.Millisecond, zaptest.NewLogger(t))
	r.OnDepart(s.Depart)

	r.handleSubjectMessages(nil, subjectMessage(t, SubjectMessage{Type: MessageJoin, ID: "p1", Name: "Al"}))
	r.handleSubjectMessages(nil, subjectMessage(t, SubjectMessage{Type: MessageJoin, ID: "p2", Name: "Bo"}))
	s.Tick()
	if s.Len() != 2 || len(p.messages) != 2 {
		t.Fatalf("Len() = %d, published %d, want 2 and 2", s.Len(), len(p.messages))
	}

	r.handleSubjectMessages(nil, subjectMessage(t, SubjectMessage{Type: MessageLeave, ID: "p1"}))
	if s.Len() != 1 {
		t.Errorf("Len() = %d after leave, want 1", s.Len())
	}
	s.Tick()
	if len(p.messages) != 3 || p.messages[2].topic != "labeltx/frames/p2" {
		t.Errorf("published %+v", p.messages)
	}
}
