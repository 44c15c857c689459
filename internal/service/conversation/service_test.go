package conversation_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivahdesk/leadbot/backend/internal/model/lead"
	"github.com/vivahdesk/leadbot/backend/internal/service/conversation"
	"github.com/vivahdesk/leadbot/backend/internal/store"
)

type captureNotifier struct {
	mu      sync.Mutex
	records []lead.Record
}

func (n *captureNotifier) LeadCompleted(rec lead.Record) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.records = append(n.records, rec)
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.records)
}

func setup() (*conversation.Service, *store.MemoryStore, *captureNotifier) {
	st := store.NewMemoryStore()
	notifier := &captureNotifier{}
	svc := conversation.NewService(st, notifier, nil)
	return svc, st, notifier
}

func mustTurn(t *testing.T, svc *conversation.Service, id, text string) string {
	t.Helper()
	reply, err := svc.Turn(context.Background(), id, text)
	require.NoError(t, err)
	require.NotEmpty(t, reply)
	return reply
}

func session(t *testing.T, st *store.MemoryStore, id string) lead.Session {
	t.Helper()
	s, created, err := st.GetOrCreate(context.Background(), id)
	require.NoError(t, err)
	require.False(t, created)
	return s
}

func TestNameStep(t *testing.T) {
	svc, st, _ := setup()

	reply := mustTurn(t, svc, "s1", "Ananya")

	assert.Contains(t, reply, "Wedding")
	assert.Contains(t, reply, "Other")

	s := session(t, st, "s1")
	assert.Equal(t, lead.StepAskEventType, s.Step)
	assert.Equal(t, "Ananya", s.Name)
}

func TestNameStepRejectsInvalid(t *testing.T) {
	svc, st, _ := setup()

	for _, bad := range []string{"", "  ", "7", "!!"} {
		reply := mustTurn(t, svc, "s1", bad)
		assert.Contains(t, reply, "name")
	}

	s := session(t, st, "s1")
	assert.Equal(t, lead.StepAskName, s.Step)
	assert.Empty(t, s.Name)
}

func TestEventTypeMenuChoice(t *testing.T) {
	svc, st, _ := setup()
	mustTurn(t, svc, "s1", "Ananya")

	reply := mustTurn(t, svc, "s1", "2")

	assert.Contains(t, reply, "Reception")
	s := session(t, st, "s1")
	assert.Equal(t, "Reception", s.EventType)
	assert.Equal(t, lead.StepAskLocation, s.Step)
}

func TestEventTypeRejectsUnknownCode(t *testing.T) {
	svc, st, _ := setup()
	mustTurn(t, svc, "s1", "Ananya")

	reply := mustTurn(t, svc, "s1", "9")

	assert.Contains(t, reply, "1 to 6")
	s := session(t, st, "s1")
	assert.Equal(t, lead.StepAskEventType, s.Step)
	assert.Empty(t, s.EventType)
}

func TestCustomEventDetour(t *testing.T) {
	svc, st, _ := setup()
	mustTurn(t, svc, "s1", "Ananya")

	mustTurn(t, svc, "s1", "6")
	s := session(t, st, "s1")
	assert.Equal(t, lead.StepAskOtherEvent, s.Step)

	mustTurn(t, svc, "s1", "Baby Shower")
	s = session(t, st, "s1")
	assert.Equal(t, "Baby Shower", s.EventType)
	assert.Equal(t, lead.StepAskLocation, s.Step)
}

func TestInvalidSlotDoesNotNotify(t *testing.T) {
	svc, st, notifier := setup()
	walkToSlotStep(t, svc, "s1")

	reply := mustTurn(t, svc, "s1", "0")

	assert.Contains(t, reply, "1 to 9")
	assert.Zero(t, notifier.count())
	s := session(t, st, "s1")
	assert.Equal(t, lead.StepAskTimeSlot, s.Step)
	assert.Empty(t, s.TimeSlot)
}

func TestHappyPath(t *testing.T) {
	svc, st, notifier := setup()
	walkToSlotStep(t, svc, "s1")

	reply := mustTurn(t, svc, "s1", "3")

	assert.Contains(t, reply, "Ananya")
	assert.Contains(t, reply, "Wedding")
	assert.Contains(t, reply, "Jaipur")
	assert.Contains(t, reply, "14 Feb 2026")
	assert.Contains(t, reply, "1:00 PM – 2:00 PM")

	s := session(t, st, "s1")
	assert.Equal(t, lead.StepDone, s.Step)

	require.Equal(t, 1, notifier.count())
	rec := notifier.records[0]
	assert.Equal(t, "Ananya", rec.Name)
	assert.Equal(t, "Wedding", rec.EventType)
	assert.Equal(t, "Jaipur", rec.Location)
	assert.Equal(t, "14 Feb 2026", rec.Date)
	assert.Equal(t, "1:00 PM – 2:00 PM", rec.TimeSlot)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestDoneIsIdempotent(t *testing.T) {
	svc, st, notifier := setup()
	walkToSlotStep(t, svc, "s1")
	mustTurn(t, svc, "s1", "3")

	first := mustTurn(t, svc, "s1", "hello again")
	second := mustTurn(t, svc, "s1", "3")

	assert.Equal(t, first, second)
	assert.Contains(t, first, "already booked")
	assert.Equal(t, 1, notifier.count())

	s := session(t, st, "s1")
	assert.Equal(t, lead.StepDone, s.Step)
}

// Fields are write-once: later messages never clear or overwrite what an
// earlier step collected.
func TestFieldsAccumulateMonotonically(t *testing.T) {
	svc, st, _ := setup()
	walkToSlotStep(t, svc, "s1")
	mustTurn(t, svc, "s1", "3")

	mustTurn(t, svc, "s1", "Meera")
	mustTurn(t, svc, "s1", "5")

	s := session(t, st, "s1")
	assert.Equal(t, "Ananya", s.Name)
	assert.Equal(t, "Wedding", s.EventType)
	assert.Equal(t, "Jaipur", s.Location)
	assert.Equal(t, "14 Feb 2026", s.Date)
	assert.Equal(t, "1:00 PM – 2:00 PM", s.TimeSlot)
}

func TestUnknownStepResets(t *testing.T) {
	svc, st, _ := setup()
	mustTurn(t, svc, "s1", "Ananya")

	s := session(t, st, "s1")
	s.Step = lead.Step("time_travel")
	require.NoError(t, st.Put(context.Background(), s))

	reply := mustTurn(t, svc, "s1", "anything")

	assert.Contains(t, reply, "name")
	s = session(t, st, "s1")
	assert.Equal(t, lead.StepAskName, s.Step)
	assert.Empty(t, s.Name)
}

func TestSessionsAreIndependent(t *testing.T) {
	svc, st, _ := setup()

	mustTurn(t, svc, "a", "Ananya")
	mustTurn(t, svc, "b", "Rahul")

	assert.Equal(t, "Ananya", session(t, st, "a").Name)
	assert.Equal(t, "Rahul", session(t, st, "b").Name)
}

// Racing duplicates of the final message must produce exactly one
// notification: the per-session lock serializes turns, and the done step
// never re-dispatches.
func TestConcurrentFinalTurnNotifiesOnce(t *testing.T) {
	svc, _, notifier := setup()
	walkToSlotStep(t, svc, "s1")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Turn(context.Background(), "s1", "3")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, notifier.count())
}

// walkToSlotStep drives a session through name, event, location and date,
// leaving it at the time-slot menu.
func walkToSlotStep(t *testing.T, svc *conversation.Service, id string) {
	t.Helper()
	mustTurn(t, svc, id, "Ananya")
	mustTurn(t, svc, id, "1")
	mustTurn(t, svc, id, "Jaipur")
	reply := mustTurn(t, svc, id, "14 Feb 2026")
	require.Contains(t, reply, "slots")
}
