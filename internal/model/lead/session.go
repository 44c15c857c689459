package lead

import "time"

// Step identifies the dialogue state a session is currently in, i.e. which
// field the next inbound message is expected to supply.
type Step string

const (
	StepAskName       Step = "ask_name"
	StepAskEventType  Step = "ask_event_type"
	StepAskOtherEvent Step = "ask_other_event"
	StepAskLocation   Step = "ask_location"
	StepAskDate       Step = "ask_date"
	StepAskTimeSlot   Step = "ask_time_slot"
	StepDone          Step = "done"
)

// Valid reports whether s is one of the enumerated dialogue steps.
func (s Step) Valid() bool {
	switch s {
	case StepAskName, StepAskEventType, StepAskOtherEvent,
		StepAskLocation, StepAskDate, StepAskTimeSlot, StepDone:
		return true
	}
	return false
}

// Session captures one in-progress or completed conversation. Fields are
// write-once: each collecting step sets its field exactly once and the Step
// value determines which fields are guaranteed present.
type Session struct {
	ID        string    `json:"id"`
	Step      Step      `json:"step"`
	Name      string    `json:"name,omitempty"`
	EventType string    `json:"eventType,omitempty"`
	Location  string    `json:"location,omitempty"`
	Date      string    `json:"date,omitempty"`
	TimeSlot  string    `json:"timeSlot,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession returns a fresh session at the opening step.
func NewSession(id string) Session {
	now := time.Now().UTC()
	return Session{
		ID:        id,
		Step:      StepAskName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Record is the terminal snapshot of a completed session handed to the
// notification sinks. Immutable once built; the engine does not retain it.
type Record struct {
	Name      string    `json:"name"`
	EventType string    `json:"eventType"`
	Location  string    `json:"location"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"timeSlot"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordFrom builds the lead record for a session that has reached the
// terminal step.
func RecordFrom(s Session) Record {
	return Record{
		Name:      s.Name,
		EventType: s.EventType,
		Location:  s.Location,
		Date:      s.Date,
		TimeSlot:  s.TimeSlot,
		Timestamp: time.Now().UTC(),
	}
}
