package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// ErrPublishTimeout is returned when the broker doesn't confirm a frame in time.
var ErrPublishTimeout = errors.New("timed out publishing frame")

// A Publisher sends messages to the broker. mqtt.Client is a Publisher.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MqttRegistry tracks subjects that announce themselves over MQTT and
// publishes their frames back to the broker.
type MqttRegistry struct {
	config   Config
	client   Publisher
	log      *zap.Logger
	onDepart func(key string)

	mu       sync.Mutex
	subjects map[string]*mqttSubject
}

// NewMqttRegistry creates an instance of a MqttRegistry.
func NewMqttRegistry(config Config, client Publisher, log *zap.Logger) *MqttRegistry {
	r := new(MqttRegistry)
	r.config = config
	r.client = client
	r.log = log
	r.subjects = make(map[string]*mqttSubject)
	return r
}

// OnDepart sets the function told about subjects that leave, usually
// Scheduler.Depart. It must be set before messages start arriving.
func (r *MqttRegistry) OnDepart(f func(key string)) {
	r.onDepart = f
}

// Subscribe listens for subject announcements.
func (r *MqttRegistry) Subscribe(client mqtt.Client) error {
	topic := r.config.Mqtt.Topics.Subjects
	if token := client.Subscribe(topic, r.config.Mqtt.Qos, r.handleSubjectMessages); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	r.log.Info("subscribed", zap.String("topic", topic))
	return nil
}

func (r *MqttRegistry) handleSubjectMessages(client mqtt.Client, msg mqtt.Message) {
	var message SubjectMessage
	if err := json.Unmarshal(msg.Payload(), &message); err != nil {
		r.log.Warn("bad subject message", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}
	if message.ID == "" {
		r.log.Warn("subject message without id", zap.String("type", message.Type))
		return
	}

	switch message.Type {
	case MessageJoin:
		r.Join(message.ID, message.Name)
	case MessageLeave:
		r.Leave(message.ID)
	default:
		r.log.Warn("unknown subject message", zap.String("type", message.Type), zap.String("id", message.ID))
	}
}

// Join adds a subject, or renames it if it is already here.
func (r *MqttRegistry) Join(id string, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.subjects[id]; ok {
		s.setLabel(r.config.Label(name))
		return
	}

	r.subjects[id] = &mqttSubject{registry: r, id: id, label: r.config.Label(name)}
	r.log.Info("subject joined", zap.String("id", id), zap.String("name", name))
}

// Leave removes a subject and then reports its departure.
func (r *MqttRegistry) Leave(id string) {
	r.mu.Lock()
	_, ok := r.subjects[id]
	delete(r.subjects, id)
	r.mu.Unlock()

	if !ok {
		return
	}

	r.log.Info("subject left", zap.String("id", id))
	if r.onDepart != nil {
		r.onDepart(id)
	}
}

// Subjects returns the joined subjects ordered by id.
func (r *MqttRegistry) Subjects() []Subject {
	r.mu.Lock()
	out := make([]Subject, 0, len(r.subjects))
	for _, s := range r.subjects {
		out = append(out, s)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

func (r *MqttRegistry) encode(f *Frame) ([]byte, error) {
	if r.config.Animation.Encoding == EncodingBinary {
		return f.MarshalBinary()
	}
	return f.MarshalJSON()
}

func (r *MqttRegistry) publish(id string, f *Frame) error {
	payload, err := r.encode(f)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	topic := r.config.Mqtt.Topics.Frames + "/" + id
	token := r.client.Publish(topic, r.config.Mqtt.Qos, false, payload)
	if !token.WaitTimeout(r.config.Mqtt.Timeout) {
		return fmt.Errorf("%s: %w", topic, ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

type mqttSubject struct {
	registry *MqttRegistry
	id       string

	mu    sync.Mutex
	label string
}

func (s *mqttSubject) Key() string {
	return s.id
}

func (s *mqttSubject) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

func (s *mqttSubject) setLabel(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

func (s *mqttSubject) Deliver(f *Frame) error {
	return s.registry.publish(s.id, f)
}
