package queuesync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/maitre/internal/api"
	"github.com/five82/maitre/internal/queue"
	"github.com/five82/maitre/internal/state"
)

// backend is an in-memory stand-in for the queue service.
type backend struct {
	mu        sync.Mutex
	entries   []queue.Entry
	nextID    int64
	nextNum   int
	failQueue bool
	badQueue  bool
	failPred  bool
	requests  map[string]int
	sms       []map[string]string
}

func newBackend(t *testing.T, seed ...queue.Entry) (*backend, *api.Client) {
	t.Helper()
	b := &backend{entries: append([]queue.Entry(nil), seed...), nextID: 100, nextNum: 100, requests: map[string]int{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/queue", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failQueue {
			http.Error(w, `{"error":"database locked"}`, http.StatusInternalServerError)
			return
		}
		if b.badQueue {
			writeJSON(w, map[string]any{"not": "a list"})
			return
		}
		writeJSON(w, b.entries)
	})
	mux.HandleFunc("POST /api/customers", func(w http.ResponseWriter, r *http.Request) {
		var req api.CreateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.nextID++
		b.nextNum++
		number := fmt.Sprintf("%s%03d", req.QueueType.Prefix(), b.nextNum)
		b.entries = append(b.entries, queue.Entry{
			ID: b.nextID, QueueNumber: number, CustomerName: req.CustomerName, Phone: req.Phone,
			PartySize: req.PartySize, Type: req.QueueType, Status: queue.StatusWaiting, EstimatedWait: 31,
		})
		writeJSON(w, map[string]any{
			"success": true, "customer_id": b.nextID, "queue_number": number,
			"prediction": map[string]any{"estimated_wait": 31, "confidence": 88, "ai_powered": true},
		})
	})
	mux.HandleFunc("PUT /api/customers/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var body struct {
			Status queue.Status `json:"status"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.entries {
			if b.entries[i].ID == id {
				b.entries[i].Status = body.Status
				writeJSON(w, map[string]any{"success": true})
				return
			}
		}
		writeJSON(w, map[string]any{"success": false})
	})
	mux.HandleFunc("DELETE /api/customers/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.entries {
			if b.entries[i].ID == id {
				b.entries = append(b.entries[:i], b.entries[i+1:]...)
				writeJSON(w, map[string]any{"success": true})
				return
			}
		}
		writeJSON(w, map[string]any{"success": false})
	})
	mux.HandleFunc("GET /api/customers/search", func(w http.ResponseWriter, r *http.Request) {
		term := strings.ToLower(r.URL.Query().Get("q"))
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []queue.Entry{}
		for _, e := range b.entries {
			if strings.Contains(strings.ToLower(e.CustomerName), term) || strings.Contains(e.Phone, term) {
				out = append(out, e)
			}
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("POST /api/predict-wait-time", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failPred {
			http.Error(w, "model offline", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]any{"estimated_wait": 27, "confidence": 75, "factors": []string{"peak"}, "ai_powered": true})
	})
	mux.HandleFunc("POST /api/queue-insights", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"efficiency_score": 90, "bottlenecks": []string{"Normal operations"}})
	})
	mux.HandleFunc("POST /send_sms", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.sms = append(b.sms, body)
		b.mu.Unlock()
		writeJSON(w, map[string]any{"status": "success"})
	})
	mux.HandleFunc("GET /api/analytics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"today_customers": 4, "hourly_data": []int{0, 1, 3}})
	})
	mux.HandleFunc("GET /api/queue/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"total": 6, "waiting": 1, "today_total": 6})
	})
	// /api/customer/{id}/qr and /api/customer/status/{number} overlap as
	// ServeMux patterns, so one handler serves both.
	mux.HandleFunc("GET /api/customer/{id}/{kind}", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.PathValue("id") == "status":
			writeJSON(w, map[string]any{"queueNumber": r.PathValue("kind"), "status": "Waiting", "position": 2})
		case r.PathValue("kind") == "qr":
			writeJSON(w, map[string]any{"queue_number": "T001", "qr_code": "data:image/png;base64,AA", "status_url": "http://host/status?queue=T001"})
		default:
			http.NotFound(w, r)
		}
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests[r.Method+" "+r.URL.Path]++
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL, api.Options{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return b, client
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[key]
}

func (b *backend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.requests {
		n += c
	}
	return n
}

func (b *backend) setFailQueue(v bool) {
	b.mu.Lock()
	b.failQueue = v
	b.mu.Unlock()
}

func (b *backend) setBadQueue(v bool) {
	b.mu.Lock()
	b.badQueue = v
	b.mu.Unlock()
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func (r *recordingNotifier) last() Notice {
	all := r.all()
	if len(all) == 0 {
		return Notice{}
	}
	return all[len(all)-1]
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

type harness struct {
	backend  *backend
	store    *state.Store
	notifier *recordingNotifier
	logs     *syncBuffer
	ctrl     *Controller
}

func newHarness(t *testing.T, opts Options, seed ...queue.Entry) *harness {
	t.Helper()
	b, client := newBackend(t, seed...)
	h := &harness{
		backend:  b,
		store:    &state.Store{},
		notifier: &recordingNotifier{},
		logs:     &syncBuffer{},
	}
	opts.Notifier = h.notifier
	opts.Logger = slog.New(slog.NewJSONHandler(h.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h.ctrl = New(client, h.store, opts)
	return h
}

func waiting(id int64, name string, typ queue.Type) queue.Entry {
	return queue.Entry{
		ID:            id,
		QueueNumber:   fmt.Sprintf("%s%03d", typ.Prefix(), id),
		CustomerName:  name,
		Phone:         "555-01" + strconv.FormatInt(id, 10),
		PartySize:     2,
		Type:          typ,
		Status:        queue.StatusWaiting,
		EstimatedWait: 20,
	}
}
