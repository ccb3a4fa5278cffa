package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"go-qualifier/internal/models"
	"go-qualifier/internal/present"
	"go-qualifier/internal/qualifier"
)

type fakeUpstream struct {
	result    models.QualificationResult
	err       error
	healthErr error
	calls     []models.QualificationRequest
}

func (f *fakeUpstream) Qualify(_ context.Context, req models.QualificationRequest) (models.QualificationResult, error) {
	f.calls = append(f.calls, req)
	return f.result, f.err
}

func (f *fakeUpstream) Health(context.Context) (string, error) {
	if f.healthErr != nil {
		return "", f.healthErr
	}
	return "ok", nil
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func newRouter(up *fakeUpstream) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{Upstream: up, Validator: validator.New(), Logger: zerolog.Nop()}
	r := gin.New()
	r.GET("/healthz", h.Healthz)
	r.GET("/api/bands", h.Bands)
	r.POST("/api/qualifications", h.Qualify)
	return r
}

func post(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/qualifications", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestQualifyURLMode(t *testing.T) {
	up := &fakeUpstream{result: models.QualificationResult{PersonName: "Jane Doe", QualificationScore: 8.5}}
	r := newRouter(up)

	w := post(t, r, `{"person_name":"Jane Doe","mode":"url","event_url":"https://luma.com/x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp QualifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SubmissionID == "" {
		t.Fatal("expected a submission id")
	}
	if resp.Band != present.HighlyQualified || resp.Label != "Highly Qualified" {
		t.Fatalf("unexpected band: %s / %s", resp.Band, resp.Label)
	}
	if resp.Result.QualificationScore != 8.5 {
		t.Fatalf("result not passed through: %+v", resp.Result)
	}

	want := models.URLRequest{PersonName: "Jane Doe", EventURL: "https://luma.com/x"}
	if len(up.calls) != 1 || !reflect.DeepEqual(up.calls[0], want) {
		t.Fatalf("unexpected upstream calls: %#v", up.calls)
	}
}

func TestQualifyManualModeFiltersRequirements(t *testing.T) {
	up := &fakeUpstream{result: models.QualificationResult{QualificationScore: 5}}
	r := newRouter(up)

	w := post(t, r, `{"person_name":"Jane","mode":"manual","event_url":"https://ignored",
		"event_details":{"name":"GopherCon","type":"conference","requirements":["","a","  ","b"]}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(up.calls) != 1 {
		t.Fatalf("expected one upstream call, got %d", len(up.calls))
	}
	mr, ok := up.calls[0].(models.ManualRequest)
	if !ok {
		t.Fatalf("expected manual request, got %T", up.calls[0])
	}
	if !reflect.DeepEqual(mr.EventDetails.Requirements, []string{"a", "b"}) {
		t.Fatalf("unexpected requirements: %q", mr.EventDetails.Requirements)
	}
}

func TestQualifyServiceFailureIsStillOK(t *testing.T) {
	up := &fakeUpstream{err: &qualifier.StatusError{StatusCode: 500, Body: "boom"}}
	r := newRouter(up)

	w := post(t, r, `{"person_name":"Jane","mode":"url","event_url":"https://luma.com/x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp QualifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Band != present.Failed {
		t.Fatalf("expected failed band, got %s", resp.Band)
	}
	if resp.Result.Error == nil || !strings.Contains(*resp.Result.Error, "500") {
		t.Fatalf("expected error mentioning 500, got %v", resp.Result.Error)
	}
	if resp.Result.InformationSources == nil || len(resp.Result.InformationSources) != 0 {
		t.Fatalf("expected empty sources, got %v", resp.Result.InformationSources)
	}
}

func TestQualifyRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"person_name":`, "INVALID_REQUEST"},
		{"missing mode", `{"person_name":"Jane","event_url":"https://x"}`, "VALIDATION_ERROR"},
		{"unknown mode", `{"person_name":"Jane","mode":"fax"}`, "VALIDATION_ERROR"},
		{"blank person", `{"person_name":"  ","mode":"url","event_url":"https://x"}`, "INCOMPLETE_REQUEST"},
		{"url mode without url", `{"person_name":"Jane","mode":"url","event_details":{"name":"GopherCon"}}`, "INCOMPLETE_REQUEST"},
		{"manual mode without name", `{"person_name":"Jane","mode":"manual","event_url":"https://x"}`, "INCOMPLETE_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUpstream{}
			w := post(t, newRouter(up), tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if got := decodeError(t, w).Error.Code; got != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, got)
			}
			if len(up.calls) != 0 {
				t.Fatalf("expected no upstream call, got %d", len(up.calls))
			}
		})
	}
}

func TestQualifyIncompleteListsMissing(t *testing.T) {
	w := post(t, newRouter(&fakeUpstream{}), `{"person_name":"","mode":"manual"}`)

	details, ok := decodeError(t, w).Error.Details.([]any)
	if !ok {
		t.Fatalf("expected details list, got %#v", decodeError(t, w).Error.Details)
	}
	want := []any{"person name is required", "event name is required"}
	if !reflect.DeepEqual(details, want) {
		t.Fatalf("details = %v, want %v", details, want)
	}
}

func TestHealthz(t *testing.T) {
	r := newRouter(&fakeUpstream{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"upstream":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	r = newRouter(&fakeUpstream{healthErr: errors.New("connection refused")})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if got := decodeError(t, w).Error.Code; got != "DEPENDENCY_UNAVAILABLE" {
		t.Fatalf("expected DEPENDENCY_UNAVAILABLE, got %s", got)
	}
}

func TestBands(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&fakeUpstream{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bands", nil))

	var bands []present.BandInfo
	if err := json.Unmarshal(w.Body.Bytes(), &bands); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(bands, present.Bands()) {
		t.Fatalf("bands = %+v", bands)
	}
}
