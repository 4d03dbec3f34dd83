package models

import "encoding/json"

// Event is one logged call or BOLO. The zero value is an empty event; use
// NewEvent to build one. Events are never mutated after creation.
type Event struct {
	timestamp string
	fields    map[string]string
}

// NewEvent copies fields into a new Event
func NewEvent(timestamp string, fields map[string]string) Event {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Event{timestamp: timestamp, fields: cp}
}

// Timestamp returns the military time the event was logged at
func (e Event) Timestamp() string {
	return e.timestamp
}

// Field returns a single field, empty when absent
func (e Event) Field(name string) string {
	return e.fields[name]
}

// Fields returns a copy of the event fields
func (e Event) Fields() map[string]string {
	cp := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		cp[k] = v
	}
	return cp
}

type eventJSON struct {
	Timestamp string            `json:"timestamp"`
	Fields    map[string]string `json:"fields"`
}

// MarshalJSON renders the event as {"timestamp": ..., "fields": {...}}
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{Timestamp: e.timestamp, Fields: e.Fields()})
}

// UnmarshalJSON is the inverse of MarshalJSON
func (e *Event) UnmarshalJSON(b []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = NewEvent(raw.Timestamp, raw.Fields)
	return nil
}
