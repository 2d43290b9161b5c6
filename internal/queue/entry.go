package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// sqliteTimestampLayout is the layout the backend's CURRENT_TIMESTAMP columns use.
const sqliteTimestampLayout = "2006-01-02 15:04:05"

// Type is the service channel a party is queued for.
type Type string

const (
	TypeTable    Type = "Table"
	TypeTakeaway Type = "Takeaway"
)

// Valid reports whether t is a known queue type.
func (t Type) Valid() bool {
	return t == TypeTable || t == TypeTakeaway
}

// Prefix returns the queue-number prefix for t.
func (t Type) Prefix() string {
	if t == TypeTable {
		return "T"
	}
	return "K"
}

// ParseType accepts the wire spelling plus a few operator shorthands.
func ParseType(value string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "table", "t", "dine-in", "dinein":
		return TypeTable, nil
	case "takeaway", "k", "counter", "takeout":
		return TypeTakeaway, nil
	}
	return "", fmt.Errorf("unknown queue type %q", value)
}

// Status is where a party is in its visit.
type Status string

const (
	StatusWaiting Status = "Waiting"
	StatusSeated  Status = "Seated"
	StatusDone    Status = "Done"
)

// Prediction carries the optional model-backed fields the server may attach
// to an entry. A nil *Prediction means the server supplied none of them.
type Prediction struct {
	AIPowered  bool
	Confidence *int
	Factors    []string
}

// Entry is one queued party as last reported by the server.
type Entry struct {
	ID            int64
	QueueNumber   string
	CustomerName  string
	Phone         string
	PartySize     int
	Type          Type
	Status        Status
	Timestamp     time.Time
	EstimatedWait int
	Prediction    *Prediction
}

type wireEntry struct {
	ID            int64           `json:"id"`
	QueueNumber   string          `json:"queueNumber"`
	CustomerName  string          `json:"customerName"`
	Phone         string          `json:"phone"`
	PartySize     int             `json:"partySize"`
	QueueType     Type            `json:"queueType"`
	Status        Status          `json:"status"`
	Timestamp     string          `json:"timestamp"`
	EstimatedWait int             `json:"estimatedWait"`
	AIPowered     json.RawMessage `json:"aiPowered,omitempty"`
	Confidence    *int            `json:"confidence,omitempty"`
	AIFactors     []string        `json:"aiFactors,omitempty"`
}

// UnmarshalJSON decodes the camelCase list/search payload. aiPowered may be a
// bool or the 0/1 integer SQLite hands back.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	aiPowered, err := parseLooseBool(w.AIPowered)
	if err != nil {
		return fmt.Errorf("aiPowered: %w", err)
	}
	*e = Entry{
		ID:            w.ID,
		QueueNumber:   w.QueueNumber,
		CustomerName:  w.CustomerName,
		Phone:         w.Phone,
		PartySize:     w.PartySize,
		Type:          w.QueueType,
		Status:        w.Status,
		Timestamp:     ParseTimestamp(w.Timestamp),
		EstimatedWait: w.EstimatedWait,
	}
	if aiPowered || w.Confidence != nil || len(w.AIFactors) > 0 {
		e.Prediction = &Prediction{
			AIPowered:  aiPowered,
			Confidence: w.Confidence,
			Factors:    w.AIFactors,
		}
	}
	return nil
}

// MarshalJSON emits the same camelCase shape the server serves, so a snapshot
// can be posted back to the insights and prediction endpoints.
func (e Entry) MarshalJSON() ([]byte, error) {
	w := wireEntry{
		ID:            e.ID,
		QueueNumber:   e.QueueNumber,
		CustomerName:  e.CustomerName,
		Phone:         e.Phone,
		PartySize:     e.PartySize,
		QueueType:     e.Type,
		Status:        e.Status,
		EstimatedWait: e.EstimatedWait,
	}
	if !e.Timestamp.IsZero() {
		w.Timestamp = e.Timestamp.Format(sqliteTimestampLayout)
	}
	if p := e.Prediction; p != nil {
		w.AIPowered = json.RawMessage(fmt.Sprintf("%t", p.AIPowered))
		w.Confidence = p.Confidence
		w.AIFactors = p.Factors
	}
	return json.Marshal(w)
}

// Clone returns a copy that shares no memory with e.
func (e Entry) Clone() Entry {
	if e.Prediction == nil {
		return e
	}
	p := *e.Prediction
	if p.Confidence != nil {
		c := *p.Confidence
		p.Confidence = &c
	}
	if p.Factors != nil {
		p.Factors = append([]string(nil), p.Factors...)
	}
	e.Prediction = &p
	return e
}

// Waited returns how long the party has been in the queue at now.
func (e Entry) Waited(now time.Time) time.Duration {
	if e.Timestamp.IsZero() || now.Before(e.Timestamp) {
		return 0
	}
	return now.Sub(e.Timestamp)
}

// ParseTimestamp understands RFC3339 and the backend's SQLite layout.
// Unparseable values yield the zero time.
func ParseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	// CURRENT_TIMESTAMP is UTC.
	if t, err := time.ParseInLocation(sqliteTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}

func parseLooseBool(raw json.RawMessage) (bool, error) {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", "false", "0":
		return false, nil
	case "true", "1":
		return true, nil
	}
	return false, fmt.Errorf("unexpected value %s", trimmed)
}
