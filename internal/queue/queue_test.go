package queue

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestNumberGenerator_MonotonicAcrossTypes(t *testing.T) {
	var g NumberGenerator

	types := []Type{TypeTable, TypeTakeaway, TypeTakeaway, TypeTable, TypeTable, TypeTakeaway}
	last := 0
	for i, typ := range types {
		got := g.Next(typ)
		if got[:1] != typ.Prefix() {
			t.Fatalf("call %d: Next(%s) = %q, want prefix %q", i, typ, got, typ.Prefix())
		}
		if len(got) != 4 {
			t.Fatalf("call %d: Next(%s) = %q, want 3-digit padded suffix", i, typ, got)
		}
		n, err := strconv.Atoi(got[1:])
		if err != nil {
			t.Fatalf("call %d: suffix of %q not numeric: %v", i, got, err)
		}
		if n <= last {
			t.Fatalf("call %d: suffix %d not greater than %d", i, n, last)
		}
		last = n
	}
}

func TestNumberGenerator_Format(t *testing.T) {
	var g NumberGenerator
	if got := g.Next(TypeTable); got != "T001" {
		t.Fatalf("first Next(Table) = %q, want T001", got)
	}
	if got := g.Next(TypeTakeaway); got != "K002" {
		t.Fatalf("second Next(Takeaway) = %q, want K002", got)
	}
}

func TestEstimateWait(t *testing.T) {
	for n := 0; n <= 20; n++ {
		if got, want := EstimateWait(TypeTable, n), 20+5*n; got != want {
			t.Fatalf("EstimateWait(Table, %d) = %d, want %d", n, got, want)
		}
		if got, want := EstimateWait(TypeTakeaway, n), 15+5*n; got != want {
			t.Fatalf("EstimateWait(Takeaway, %d) = %d, want %d", n, got, want)
		}
	}
	if got := EstimateWait(TypeTable, -3); got != 20 {
		t.Fatalf("EstimateWait(Table, -3) = %d, want 20", got)
	}
}

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusWaiting, StatusSeated, true},
		{StatusSeated, StatusDone, true},
		{StatusWaiting, StatusDone, false},
		{StatusSeated, StatusWaiting, false},
		{StatusDone, StatusSeated, false},
		{StatusDone, StatusDone, false},
		{StatusWaiting, StatusWaiting, false},
	}
	for _, tc := range cases {
		if got := ValidTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("ValidTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
	if _, ok := StatusDone.Next(); ok {
		t.Fatalf("Done.Next() ok = true, want terminal")
	}
}

func TestAddInputValidate(t *testing.T) {
	good := AddInput{CustomerName: "Ann", Phone: "555", PartySize: 2, Type: TypeTable}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate(good) = %v, want nil", err)
	}

	cases := []struct {
		name  string
		mod   func(*AddInput)
		field string
	}{
		{"blank name", func(in *AddInput) { in.CustomerName = "   " }, "name"},
		{"blank phone", func(in *AddInput) { in.Phone = "" }, "phone"},
		{"zero party", func(in *AddInput) { in.PartySize = 0 }, "party size"},
		{"bad type", func(in *AddInput) { in.Type = "Bar" }, "type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := good
			tc.mod(&in)
			err := in.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate = %v, want *ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("Field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	if got, err := ParseType(" table "); err != nil || got != TypeTable {
		t.Fatalf("ParseType(table) = %q, %v", got, err)
	}
	if got, err := ParseType("K"); err != nil || got != TypeTakeaway {
		t.Fatalf("ParseType(K) = %q, %v", got, err)
	}
	if _, err := ParseType("bar"); err == nil {
		t.Fatalf("ParseType(bar) returned nil error")
	}
}

func TestEntryUnmarshal_SQLiteShapes(t *testing.T) {
	payload := `[
		{"id": 7, "queueNumber": "T003", "customerName": "Ann", "phone": "555", "partySize": 2,
		 "queueType": "Table", "status": "Waiting", "timestamp": "2025-03-01 18:30:00",
		 "estimatedWait": 31, "aiPowered": 0, "confidence": 90, "aiFactors": ["Queue length"]},
		{"id": 8, "queueNumber": "K001", "customerName": "Bo", "phone": "556", "partySize": 1,
		 "queueType": "Takeaway", "status": "Seated", "timestamp": "2025-03-01T18:31:00Z",
		 "estimatedWait": 10, "aiPowered": true, "confidence": null, "aiFactors": null},
		{"id": 9, "queueNumber": "K002", "customerName": "Cy", "phone": "557", "partySize": 3,
		 "queueType": "Takeaway", "status": "Done", "timestamp": "",
		 "estimatedWait": 12, "aiPowered": null, "confidence": null, "aiFactors": null}
	]`

	var entries []Entry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}

	ann := entries[0]
	if ann.Type != TypeTable || ann.Status != StatusWaiting || ann.EstimatedWait != 31 {
		t.Fatalf("ann = %#v", ann)
	}
	wantTS := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)
	if !ann.Timestamp.Equal(wantTS) {
		t.Fatalf("ann.Timestamp = %v, want %v", ann.Timestamp, wantTS)
	}
	if ann.Prediction == nil || ann.Prediction.AIPowered || ann.Prediction.Confidence == nil || *ann.Prediction.Confidence != 90 {
		t.Fatalf("ann.Prediction = %#v, want confidence 90 not AI", ann.Prediction)
	}

	bo := entries[1]
	if bo.Prediction == nil || !bo.Prediction.AIPowered || bo.Prediction.Confidence != nil {
		t.Fatalf("bo.Prediction = %#v, want AI without confidence", bo.Prediction)
	}

	cy := entries[2]
	if cy.Prediction != nil {
		t.Fatalf("cy.Prediction = %#v, want nil", cy.Prediction)
	}
	if !cy.Timestamp.IsZero() {
		t.Fatalf("cy.Timestamp = %v, want zero", cy.Timestamp)
	}
}

func TestEntryUnmarshal_RejectsGarbageAIPowered(t *testing.T) {
	var e Entry
	if err := json.Unmarshal([]byte(`{"id":1,"aiPowered":"maybe"}`), &e); err == nil {
		t.Fatalf("Unmarshal returned nil error, want aiPowered error")
	}
}

func TestEntryMarshal_RoundTripsWireShape(t *testing.T) {
	conf := 80
	in := Entry{
		ID: 3, QueueNumber: "T001", CustomerName: "Ann", Phone: "555", PartySize: 2,
		Type: TypeTable, Status: StatusSeated, EstimatedWait: 25,
		Timestamp:  time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC),
		Prediction: &Prediction{AIPowered: true, Confidence: &conf},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal raw: %v", err)
	}
	if raw["queueType"] != "Table" || raw["customerName"] != "Ann" || raw["aiPowered"] != true {
		t.Fatalf("wire = %v", raw)
	}

	var out Entry
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !out.Timestamp.Equal(in.Timestamp) || out.Prediction == nil || *out.Prediction.Confidence != 80 {
		t.Fatalf("round trip = %#v", out)
	}
}

func TestEntryWaited(t *testing.T) {
	start := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	e := Entry{Timestamp: start}
	if got := e.Waited(start.Add(12 * time.Minute)); got != 12*time.Minute {
		t.Fatalf("Waited = %v, want 12m", got)
	}
	if got := e.Waited(start.Add(-time.Minute)); got != 0 {
		t.Fatalf("Waited before start = %v, want 0", got)
	}
}
