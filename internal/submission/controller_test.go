package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"go-qualifier/internal/form"
	"go-qualifier/internal/metrics"
	"go-qualifier/internal/models"
	"go-qualifier/internal/qualifier"
)

type fakeQualifier struct {
	calls  int
	events *[]string
	result models.QualificationResult
	err    error
}

func (f *fakeQualifier) Qualify(ctx context.Context, req models.QualificationRequest) (models.QualificationResult, error) {
	f.calls++
	if f.events != nil {
		*f.events = append(*f.events, "call")
	}
	return f.result, f.err
}

type errTransport struct{ err error }

func (t errTransport) RoundTrip(*http.Request) (*http.Response, error) { return nil, t.err }

func urlForm(person, eventURL string) *form.Form {
	f := form.New()
	f.SetPersonName(person)
	f.SetEventURL(eventURL)
	return f
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSubmitRefusesIncompleteForms(t *testing.T) {
	tests := []struct {
		name   string
		person string
		mode   form.Mode
		url    string
		event  string
	}{
		{"no person url mode", "", form.ModeURL, "https://luma.com/x", "GopherCon"},
		{"blank person manual mode", "  ", form.ModeManual, "https://luma.com/x", "GopherCon"},
		{"url mode without url", "Jane Doe", form.ModeURL, " ", "GopherCon"},
		{"manual mode without event name", "Jane Doe", form.ModeManual, "https://luma.com/x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := form.New()
			f.SetPersonName(tt.person)
			f.SetMode(tt.mode)
			f.SetEventURL(tt.url)
			f.SetEventName(tt.event)

			q := &fakeQualifier{}
			started := false
			c := NewController(q)
			_, err := c.Submit(context.Background(), f, ProgressFuncs{OnStarted: func() { started = true }})
			if !errors.Is(err, ErrIncomplete) {
				t.Fatalf("expected ErrIncomplete, got %v", err)
			}
			if q.calls != 0 || started {
				t.Fatalf("expected no call and no progress, got calls=%d started=%v", q.calls, started)
			}
			if c.InFlight() {
				t.Fatal("guard must be released after a refusal")
			}
		})
	}
}

func TestSubmitSuccessPassesResultThrough(t *testing.T) {
	want := models.QualificationResult{
		PersonName:             "Jane Doe",
		QualificationScore:     8,
		QualificationReasoning: "Keynote speaker",
		SearchesPerformed:      3,
		InformationSources:     []models.InformationSource{{Query: "q", Source: "web_search"}},
		Timestamp:              "2026-03-01T12:00:00",
	}
	q := &fakeQualifier{result: want}

	got, err := NewController(q).Submit(context.Background(), urlForm("Jane Doe", "https://luma.com/x"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("result modified:\n got %+v\nwant %+v", got, want)
	}
	if q.calls != 1 {
		t.Fatalf("expected exactly one call, got %d", q.calls)
	}
}

func TestSubmitProgressOrdering(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failure", errors.New("boom")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var events []string
			q := &fakeQualifier{events: &events, err: tc.err}
			p := ProgressFuncs{
				OnStarted: func() { events = append(events, "started") },
				OnSettled: func(models.QualificationResult) { events = append(events, "settled") },
			}

			if _, err := NewController(q).Submit(context.Background(), urlForm("Jane Doe", "u"), p); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := []string{"started", "call", "settled"}; !reflect.DeepEqual(events, want) {
				t.Fatalf("events = %v, want %v", events, want)
			}
		})
	}
}

func TestSubmitNormalizesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"agent failed"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewController(qualifier.NewClient(srv.URL), WithClock(func() time.Time { return fixedNow }))
	res, err := c.Submit(context.Background(), urlForm("Jane Doe", "https://luma.com/x"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Failed() || !strings.Contains(res.ErrorMessage(), "500") {
		t.Fatalf("expected error containing 500, got %+v", res)
	}
	if res.QualificationScore != 0 || res.SearchesPerformed != 0 {
		t.Fatalf("expected zero score and searches, got %+v", res)
	}
	if res.InformationSources == nil || len(res.InformationSources) != 0 {
		t.Fatalf("expected empty sources, got %#v", res.InformationSources)
	}
	if res.PersonName != "Jane Doe" || res.Timestamp != "2026-03-01T12:00:00Z" {
		t.Fatalf("unexpected person/timestamp: %+v", res)
	}
}

func TestSubmitNormalizesNetworkError(t *testing.T) {
	hc := &http.Client{Transport: errTransport{err: errors.New("fetch failed")}}
	c := NewController(qualifier.NewClient("http://qualifier.invalid", qualifier.WithHTTPClient(hc)))

	res, err := c.Submit(context.Background(), urlForm("Jane Doe", "https://luma.com/x"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ErrorMessage() != "fetch failed" {
		t.Fatalf("error = %q, want %q", res.ErrorMessage(), "fetch failed")
	}
}

func TestSubmitNormalizesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	res, err := NewController(qualifier.NewClient(srv.URL)).Submit(context.Background(), urlForm("Jane Doe", "u"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Failed() || !strings.HasPrefix(res.ErrorMessage(), "decode response:") {
		t.Fatalf("expected decode failure, got %q", res.ErrorMessage())
	}
}

func TestFailureMessageFallback(t *testing.T) {
	if got := failureMessage(errors.New("")); got != fallbackErrorMessage {
		t.Fatalf("got %q, want fallback", got)
	}
}

func TestSubmitURLScenario(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Write([]byte(`{"person_name":"Jane Doe","qualification_score":6,"information_sources":[],"timestamp":"t"}`))
	}))
	defer srv.Close()

	f := form.New()
	f.SetPersonName("Jane Doe")
	f.Next()
	f.SetEventURL("https://luma.com/x")
	f.SetEventName("ignored in url mode")

	if _, err := NewController(qualifier.NewClient(srv.URL)).Submit(context.Background(), f, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/qualify-from-url" {
		t.Fatalf("path = %s", gotPath)
	}
	want := map[string]any{"person_name": "Jane Doe", "event_url": "https://luma.com/x"}
	if !reflect.DeepEqual(gotBody, want) {
		t.Fatalf("body = %v, want %v", gotBody, want)
	}
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{"person_name":"Jane Doe","qualification_score":5,"information_sources":[],"timestamp":"t"}`))
	}))
	defer srv.Close()

	c := NewController(qualifier.NewClient(srv.URL))
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), urlForm("Jane Doe", "u"), ProgressFuncs{OnStarted: func() { close(started) }})
		done <- err
	}()

	<-started
	if !c.InFlight() {
		t.Fatal("expected submission to be in flight")
	}
	if _, err := c.Submit(context.Background(), urlForm("John Roe", "u"), nil); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if c.InFlight() {
		t.Fatal("guard must be released after settling")
	}
}

func TestSubmitRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPrometheus(reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}

	q := &fakeQualifier{err: &qualifier.StatusError{StatusCode: http.StatusBadGateway}}
	c := NewController(q, WithRecorder(rec))
	if _, err := c.Submit(context.Background(), urlForm("Jane Doe", "u"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `
# HELP qualifier_submissions_total Qualification submissions by mode and outcome.
# TYPE qualifier_submissions_total counter
qualifier_submissions_total{mode="url",outcome="service_error"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "qualifier_submissions_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestSubmitWithIDLogsSubmissionID(t *testing.T) {
	var buf bytes.Buffer
	c := NewController(&fakeQualifier{}, WithLogger(zerolog.New(&buf)))

	if _, err := c.SubmitWithID(context.Background(), "sub-42", urlForm("Jane Doe", "u"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected start and settle log lines, got %q", buf.String())
	}
	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if entry["submission_id"] != "sub-42" || entry["mode"] != "url" {
			t.Fatalf("log line missing submission context: %v", entry)
		}
	}
}
