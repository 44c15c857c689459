// Package conversation implements the dialogue state machine that collects a
// lead across stateless turns: each inbound message is resolved against the
// session's current step, validated, and answered with the next prompt.
package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vivahdesk/leadbot/backend/internal/metrics"
	"github.com/vivahdesk/leadbot/backend/internal/model/lead"
	"github.com/vivahdesk/leadbot/backend/internal/store"
)

// Notifier receives the completed lead record exactly once per conversation.
// Implementations must not block the calling turn.
type Notifier interface {
	LeadCompleted(rec lead.Record)
}

// NopNotifier discards completed leads, used when no sink is configured.
type NopNotifier struct{}

// LeadCompleted drops the record.
func (NopNotifier) LeadCompleted(lead.Record) {}

// stepFn handles one turn for a session sitting at a particular step. It
// mutates the session in place and returns the reply text.
type stepFn func(s *lead.Session, input string) string

// Service is the conversation engine. It owns the step transition table and
// serializes turns per session id, so at most one transition is in flight
// for any conversation.
type Service struct {
	store    store.Store
	notifier Notifier
	logger   *zap.Logger

	steps map[lead.Step]stepFn

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires the engine to its session store and notification sink.
func NewService(st store.Store, notifier Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:    st,
		notifier: notifier,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
	s.steps = map[lead.Step]stepFn{
		lead.StepAskName:       s.stepAskName,
		lead.StepAskEventType:  s.stepAskEventType,
		lead.StepAskOtherEvent: s.stepAskOtherEvent,
		lead.StepAskLocation:   s.stepAskLocation,
		lead.StepAskDate:       s.stepAskDate,
		lead.StepAskTimeSlot:   s.stepAskTimeSlot,
		lead.StepDone:          s.stepDone,
	}
	return s
}

// sessionLock returns the mutex guarding the given session id. Lock entries
// are never removed; they are a few words each and bounded by the number of
// sessions the store has seen.
func (s *Service) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Turn processes one inbound message for the given session and returns the
// reply text. Input is trimmed once here, before any predicate or mutation.
func (s *Service) Turn(ctx context.Context, sessionID, text string) (string, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, _, err := s.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return "", err
	}

	input := strings.TrimSpace(text)

	fn, ok := s.steps[session.Step]
	if !ok {
		// Corrupt step value. Reset rather than crash the handler.
		s.logger.Warn("unknown session step, resetting conversation",
			zap.String("session", sessionID),
			zap.String("step", string(session.Step)))
		session = lead.NewSession(sessionID)
		if err := s.store.Put(ctx, session); err != nil {
			return "", err
		}
		return promptAskName, nil
	}

	reply := fn(&session, input)
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Put(ctx, session); err != nil {
		return "", err
	}

	metrics.Turns.WithLabelValues(string(session.Step)).Inc()
	return reply, nil
}

func (s *Service) stepAskName(sess *lead.Session, input string) string {
	if !ValidName(input) {
		return promptAskName
	}
	sess.Name = input
	sess.Step = lead.StepAskEventType
	return promptEventMenu(sess.Name)
}

func (s *Service) stepAskEventType(sess *lead.Session, input string) string {
	if label, ok := lead.EventTypes[input]; ok {
		sess.EventType = label
		sess.Step = lead.StepAskLocation
		return promptLocation(label)
	}
	if input == lead.OtherEventCode {
		sess.Step = lead.StepAskOtherEvent
		return promptOtherEvent
	}
	return promptEventMenuRetry()
}

func (s *Service) stepAskOtherEvent(sess *lead.Session, input string) string {
	if !ValidName(input) {
		return promptOtherEvent
	}
	sess.EventType = TitleCase(input)
	sess.Step = lead.StepAskLocation
	return promptLocation(sess.EventType)
}

func (s *Service) stepAskLocation(sess *lead.Session, input string) string {
	if !ValidLocation(input) {
		return promptLocation(sess.EventType)
	}
	sess.Location = input
	sess.Step = lead.StepAskDate
	return promptDate(sess.Location)
}

func (s *Service) stepAskDate(sess *lead.Session, input string) string {
	if !ValidDateTimeText(input) {
		return promptDate(sess.Location)
	}
	sess.Date = input
	sess.Step = lead.StepAskTimeSlot
	return promptSlotMenu()
}

func (s *Service) stepAskTimeSlot(sess *lead.Session, input string) string {
	slot, ok := lead.TimeSlots[input]
	if !ok {
		return promptSlotRetry()
	}
	sess.TimeSlot = slot
	sess.Step = lead.StepDone

	// The single terminal side effect. The notifier runs the sinks off the
	// request path; their latency or failure never touches this reply.
	rec := lead.RecordFrom(*sess)
	s.notifier.LeadCompleted(rec)
	metrics.LeadsCompleted.Inc()
	s.logger.Info("lead completed",
		zap.String("session", sess.ID),
		zap.String("eventType", rec.EventType),
		zap.String("timeSlot", rec.TimeSlot))

	return promptConfirmation(sess)
}

func (s *Service) stepDone(_ *lead.Session, _ string) string {
	return promptAlreadyBooked
}
