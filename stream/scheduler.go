package stream

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/matt-g-everett/labeltx/gradient"
	"go.uber.org/zap"
)

// A Subject is something with a label to animate, such as a connected player.
type Subject interface {
	// Key identifies the subject. A subject that leaves and comes back must
	// either use a new key or be departed in between.
	Key() string
	// Label is the text to colour this tick.
	Label() string
	// Deliver displays a rendered frame.
	Deliver(f *Frame) error
}

// A Registry reports which subjects are active at the moment it is asked.
type Registry interface {
	Subjects() []Subject
}

// Result records what happened to one subject during a tick.
type Result struct {
	Key string
	// Skipped is set when the subject departed part way through the tick.
	Skipped bool
	Err     error
}

// SubjectState is a copy of one subject's animation for inspection.
type SubjectState struct {
	Key      string `json:"key"`
	Gradient string `json:"gradient"`
	Forwards bool   `json:"forwards"`
}

// Scheduler animates the label of every active subject on a fixed period.
//
// mu guards animations and departed. It is never held while talking to a
// Subject, so departures reported from a transport callback can't deadlock
// against a delivery waiting on the same transport.
type Scheduler struct {
	registry     Registry
	newAnimation func() Animation
	format       Formatting
	period       time.Duration
	log          *zap.Logger

	mu         sync.Mutex
	animations map[string]Animation
	departed   map[string]bool

	runMu   sync.Mutex
	stopped bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates an instance of a Scheduler. newAnimation is called
// once for every subject the first time it is seen.
func NewScheduler(registry Registry, newAnimation func() Animation, format Formatting,
	period time.Duration, log *zap.Logger) *Scheduler {

	s := new(Scheduler)
	s.registry = registry
	s.newAnimation = newAnimation
	s.format = format
	s.period = period
	s.log = log
	s.animations = make(map[string]Animation)
	s.departed = make(map[string]bool)
	s.stop = make(chan struct{})
	return s
}

// Tick renders the current frame for every active subject and then advances
// its animation. A subject whose delivery fails keeps its animation and
// doesn't hold up the others.
func (s *Scheduler) Tick() []Result {
	// Anything departed before now is already gone from the registry.
	s.mu.Lock()
	for k := range s.departed {
		delete(s.departed, k)
	}
	s.mu.Unlock()

	subjects := s.registry.Subjects()
	results := make([]Result, 0, len(subjects))
	for _, subject := range subjects {
		r := s.animate(subject)
		if r.Err != nil {
			s.log.Warn("render failed", zap.String("subject", r.Key), zap.Error(r.Err))
		}
		results = append(results, r)
	}

	return results
}

func (s *Scheduler) animate(subject Subject) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			r.Err = fmt.Errorf("panic: %v", p)
		}
	}()

	r.Key = subject.Key()
	f, ok := s.nextFrame(r.Key, subject.Label())
	if !ok {
		r.Skipped = true
		return r
	}

	r.Err = subject.Deliver(f)
	return r
}

// nextFrame renders the frame for key and advances its animation, creating
// the animation if this is the first time key has been seen.
func (s *Scheduler) nextFrame(key string, label string) (*Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.departed[key] {
		return nil, false
	}

	a, found := s.animations[key]
	if !found {
		a = s.newAnimation()
		s.animations[key] = a
	}

	f := &Frame{Glyphs: a.Colorize([]rune(label)), Format: s.format}
	a.Advance()
	return f, true
}

// Depart forgets the animation for key. It is safe to call from any
// goroutine, including while a tick is running.
func (s *Scheduler) Depart(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.animations, key)
	s.departed[key] = true
}

// Len returns the number of subjects with an animation.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.animations)
}

// Snapshot copies the state of every animation, ordered by key.
func (s *Scheduler) Snapshot() []SubjectState {
	s.mu.Lock()
	states := make([]SubjectState, 0, len(s.animations))
	for k, a := range s.animations {
		states = append(states, SubjectState{
			Key:      k,
			Gradient: gradient.FormatNotation(a.Stops()),
			Forwards: a.Forwards(),
		})
	}
	s.mu.Unlock()

	sort.Slice(states, func(i, j int) bool {
		return states[i].Key < states[j].Key
	})
	return states
}

// Run ticks immediately and then once per period until ctx is cancelled or
// Stop is called.
func (s *Scheduler) Run(ctx context.Context) {
	s.runMu.Lock()
	if s.stopped {
		s.runMu.Unlock()
		return
	}
	s.wg.Add(1)
	s.runMu.Unlock()
	defer s.wg.Done()

	s.log.Info("scheduler running", zap.Duration("period", s.period))
	defer s.log.Info("scheduler stopped", zap.Int("subjects", s.Len()))

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	s.Tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			// Both may be ready at once; stopping wins.
			select {
			case <-s.stop:
				return
			default:
			}
			s.Tick()
		}
	}
}

// Stop ends Run. Once Stop returns no further ticks will happen.
func (s *Scheduler) Stop() {
	s.runMu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.stop)
	}
	s.runMu.Unlock()

	s.wg.Wait()
}
