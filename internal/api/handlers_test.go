package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Manoj120605/Lostfoundbot25/internal/history"
	"github.com/Manoj120605/Lostfoundbot25/internal/item"
	"github.com/Manoj120605/Lostfoundbot25/internal/match"
	"github.com/Manoj120605/Lostfoundbot25/internal/store"
)

func newTestHandler(t *testing.T) (http.Handler, Deps) {
	t.Helper()

	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	hist, err := history.Open(":memory:")
	if err != nil {
		t.Fatalf("opening history: %v", err)
	}
	t.Cleanup(func() { hist.Close() })

	deps := Deps{Store: st, Matcher: match.New(st), History: hist}
	return NewHandler(deps), deps
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestReportLost(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, "POST", "/reports/lost", ReportRequest{
		PersonName: "Rahul",
		Category:   "Smartphone",
		Location:   "Library",
		Details:    map[string]string{"brand": "Apple", "color": "black"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp ReportResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Item.ID == "" {
		t.Error("stored report should have an id")
	}
	if resp.Item.Status != item.StatusOpen {
		t.Errorf("Status = %q, want %q", resp.Item.Status, item.StatusOpen)
	}
	if len(resp.Matches) != 0 {
		t.Errorf("fresh store should yield no matches, got %v", resp.Matches)
	}
}

func TestReportValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		req  ReportRequest
	}{
		{"missing name", ReportRequest{Category: "Keys"}},
		{"unknown category", ReportRequest{PersonName: "x", Category: "Spaceship"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, "POST", "/reports/lost", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var envelope errorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if envelope.Error.Type != "invalid_request_error" {
				t.Errorf("error type = %q", envelope.Error.Type)
			}
		})
	}
}

func TestReportThenMatch(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, "POST", "/reports/found", ReportRequest{
		PersonName: "Security Desk",
		Category:   "Smartphone",
		Location:   "Library",
		Details:    map[string]string{"brand": "Apple", "color": "black", "model": "iPhone 13"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("filing found report: status = %d", rec.Code)
	}

	rec = doJSON(t, h, "POST", "/matches", MatchRequest{
		Lost:     true,
		Category: "Smartphone",
		Details:  map[string]string{"brand": "Apple", "color": "black"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("searching: status = %d", rec.Code)
	}

	var matches []match.Match
	if err := json.NewDecoder(rec.Body).Decode(&matches); err != nil {
		t.Fatalf("decoding matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	// brand exact + color exact + empty-location bonus.
	if matches[0].Score != 25 {
		t.Errorf("score = %d, want 25", matches[0].Score)
	}
}

func TestMatchesRejectsUnknownCategory(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h, "POST", "/matches", MatchRequest{Lost: true, Category: "Spaceship"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListItems(t *testing.T) {
	h, _ := newTestHandler(t)

	reports := []ReportRequest{
		{PersonName: "a", Category: "Smartphone", Location: "Library", EventTime: "2025-03-10 09:00"},
		{PersonName: "b", Category: "Wallet", Location: "Gym", EventTime: "2025-03-12 14:00"},
	}
	for _, r := range reports {
		if rec := doJSON(t, h, "POST", "/reports/lost", r); rec.Code != http.StatusOK {
			t.Fatalf("filing report: status = %d", rec.Code)
		}
	}

	rec := doJSON(t, h, "GET", "/items?kind=lost&category=Smartphone", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var items []item.Item
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatalf("decoding items: %v", err)
	}
	if len(items) != 1 || items[0].PersonName != "a" {
		t.Errorf("filtered items = %v", items)
	}

	rec = doJSON(t, h, "GET", "/items?kind=misplaced", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown kind: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, "GET", "/items?kind=found", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	items = nil
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatalf("decoding items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("found collection should be empty, got %v", items)
	}
}

func TestLocations(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, "PUT", "/locations", item.DefaultLocations)
	if rec.Code != http.StatusOK {
		t.Fatalf("seeding locations: status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, "GET", "/locations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var locs []item.Location
	if err := json.NewDecoder(rec.Body).Decode(&locs); err != nil {
		t.Fatalf("decoding locations: %v", err)
	}
	if len(locs) != len(item.DefaultLocations) {
		t.Errorf("got %d locations, want %d", len(locs), len(item.DefaultLocations))
	}

	rec = doJSON(t, h, "PUT", "/locations", []item.Location{{Description: "nameless"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("nameless location: status = %d, want 400", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	if rec := doJSON(t, h, "POST", "/reports/lost", ReportRequest{
		PersonName: "Rahul", Category: "Keys",
	}); rec.Code != http.StatusOK {
		t.Fatalf("filing report: status = %d", rec.Code)
	}
	if rec := doJSON(t, h, "POST", "/matches", MatchRequest{
		Lost: true, Category: "Keys",
	}); rec.Code != http.StatusOK {
		t.Fatalf("searching: status = %d", rec.Code)
	}

	rec := doJSON(t, h, "GET", "/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var events []history.Event
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatalf("decoding events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	kinds := map[string]bool{}
	for _, e := range events {
		kinds[e.Kind] = true
	}
	if !kinds[history.KindReportLost] || !kinds[history.KindSearch] {
		t.Errorf("event kinds = %v", kinds)
	}
}

func TestHistoryDisabled(t *testing.T) {
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	h := NewHandler(Deps{Store: st, Matcher: match.New(st)})

	rec := doJSON(t, h, "GET", "/history", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	// Reports still work without a history store.
	rec = doJSON(t, h, "POST", "/reports/lost", ReportRequest{PersonName: "x", Category: "Keys"})
	if rec.Code != http.StatusOK {
		t.Errorf("report without history: status = %d, want 200", rec.Code)
	}
}
