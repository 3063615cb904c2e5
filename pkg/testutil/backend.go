package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

const (
	RouteLatest   = "latest"
	RouteRecent   = "recent"
	RouteStats    = "stats"
	RouteFeedback = "feedback"
)

const (
	SampleReading = `{"_id":"r1","deviceId":"rpi-main","timestamp":"2025-01-01T12:00:00Z","temperature":82.3,"cpuFrequency":1.5,"fanState":"ON","throttleStatus":"0x5"}`
	SampleLatest  = `{"success":true,"data":` + SampleReading + `}`
	SampleRecent  = `{"success":true,"data":[` + SampleReading + `]}`
	SampleStats   = `{"success":true,"data":{"avgTemp":55.2,"maxTemp":82.3,"minTemp":41,"avgFreq":1.2,"maxFreq":1.5,"count":120}}`

	SampleFeedback = `{"success":true,"data":{"feedback":[` +
		`{"_id":"f1","subject":"Great dashboard","message":"Works well on the bench","rating":4.5,"email":"a@example.com","createdAt":"2025-01-02T10:00:00Z"}` +
		`]}}`
)

// FakeBackend serves canned responses on the dashboard's REST routes.
// Bodies and status codes can be changed between requests.
type FakeBackend struct {
	*httptest.Server

	mu      sync.Mutex
	bodies  map[string]string
	status  map[string]int
	hits    map[string]int
	queries map[string]url.Values
	delay   time.Duration
}

func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{
		bodies: map[string]string{
			RouteLatest:   SampleLatest,
			RouteRecent:   SampleRecent,
			RouteStats:    SampleStats,
			RouteFeedback: SampleFeedback,
		},
		status:  make(map[string]int),
		hits:    make(map[string]int),
		queries: make(map[string]url.Values),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/rpi-health/latest", b.handler(RouteLatest)).Methods("GET")
	r.HandleFunc("/api/rpi-health/stats", b.handler(RouteStats)).Methods("GET")
	r.HandleFunc("/api/rpi-health", b.handler(RouteRecent)).Methods("GET")
	r.HandleFunc("/api/feedback", b.handler(RouteFeedback)).Methods("GET")

	b.Server = httptest.NewServer(r)
	return b
}

func (b *FakeBackend) handler(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[route]++
		b.queries[route] = r.URL.Query()
		body := b.bodies[route]
		code := b.status[route]
		delay := b.delay
		b.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if code != 0 && code != http.StatusOK {
			http.Error(w, http.StatusText(code), code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func (b *FakeBackend) SetBody(route, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bodies[route] = body
}

// SetStatus makes route answer with code. Zero or 200 restores normal replies.
func (b *FakeBackend) SetStatus(route string, code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[route] = code
}

func (b *FakeBackend) SetDelay(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay = d
}

func (b *FakeBackend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

func (b *FakeBackend) LastQuery(route string) url.Values {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queries[route]
}
