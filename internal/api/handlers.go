// Package api exposes the report store and match engine over HTTP and MCP.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Manoj120605/Lostfoundbot25/internal/history"
	"github.com/Manoj120605/Lostfoundbot25/internal/item"
	"github.com/Manoj120605/Lostfoundbot25/internal/match"
	"github.com/Manoj120605/Lostfoundbot25/internal/store"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds the collaborators the HTTP handlers need.
type Deps struct {
	Store   *store.Store
	Matcher *match.Engine
	History *history.Store // optional; if nil, events are not logged
}

// ReportRequest is the body of POST /reports/{lost,found}.
type ReportRequest struct {
	PersonName     string            `json:"personName"`
	ContactInfo    string            `json:"contactInfo"`
	Category       string            `json:"category"`
	EventTime      string            `json:"eventTime"`
	Location       string            `json:"location"`
	Details        map[string]string `json:"details"`
	AdditionalInfo string            `json:"additionalInfo"`
}

// ReportResponse returns the stored report together with its potential
// matches from the opposite collection, mirroring the report-then-search
// flow of the interactive bot.
type ReportResponse struct {
	Item    item.Item     `json:"item"`
	Matches []match.Match `json:"matches"`
}

// MatchRequest is the body of POST /matches.
type MatchRequest struct {
	Lost     bool              `json:"lost"` // true: query describes a lost item, search found reports
	Category string            `json:"category"`
	Details  map[string]string `json:"details"`
}

// NewHandler builds the HTTP router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Post("/reports/lost", handleReport(deps, item.KindLost))
	r.Post("/reports/found", handleReport(deps, item.KindFound))
	r.Post("/matches", handleMatches(deps))
	r.Get("/items", handleListItems(deps))
	r.Get("/locations", handleListLocations(deps))
	r.Put("/locations", handleSetLocations(deps))
	r.Get("/history", handleHistory(deps))

	return r
}

func handleReport(deps Deps, kind item.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req ReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.PersonName == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "personName is required")
			return
		}
		if !item.ValidCategory(req.Category) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown category %q", req.Category)
			return
		}

		it, err := deps.Store.Add(kind, store.Draft{
			PersonName:     req.PersonName,
			ContactInfo:    req.ContactInfo,
			Category:       req.Category,
			EventTime:      req.EventTime,
			Location:       req.Location,
			Details:        req.Details,
			AdditionalInfo: req.AdditionalInfo,
		})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save report: %v", err)
			return
		}

		matches := deps.Matcher.FindMatches(kind == item.KindLost, it.Category, it.Details)

		eventKind := history.KindReportFound
		if kind == item.KindLost {
			eventKind = history.KindReportLost
		}
		logEvent(deps.History, history.Event{
			ID:       uuid.New().String(),
			Kind:     eventKind,
			ItemID:   it.ID,
			Category: it.Category,
			Matches:  len(matches),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ReportResponse{Item: it, Matches: matches})
	}
}

func handleMatches(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req MatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if !item.ValidCategory(req.Category) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown category %q", req.Category)
			return
		}

		matches := deps.Matcher.FindMatches(req.Lost, req.Category, req.Details)

		logEvent(deps.History, history.Event{
			ID:       uuid.New().String(),
			Kind:     history.KindSearch,
			Category: req.Category,
			Matches:  len(matches),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(matches)
	}
}

func handleListItems(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		kind := item.Kind(q.Get("kind"))
		if kind == "" {
			kind = item.KindLost
		}
		if !kind.Valid() {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown kind %q", kind)
			return
		}

		items := deps.Store.List(kind, store.Filter{
			Category:  q.Get("category"),
			Location:  q.Get("location"),
			EventFrom: q.Get("from"),
			EventTo:   q.Get("to"),
		})
		if items == nil {
			items = []item.Item{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	}
}

func handleListLocations(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locs := deps.Store.Locations()
		if locs == nil {
			locs = []item.Location{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(locs)
	}
}

func handleSetLocations(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var locs []item.Location
		if err := json.NewDecoder(r.Body).Decode(&locs); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		for _, l := range locs {
			if l.Name == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "location name is required")
				return
			}
		}

		if err := deps.Store.SetLocations(locs); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save locations: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"count": len(locs)})
	}
}

func handleHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.History == nil {
			httpError(w, http.StatusNotFound, "not_found", "history is not enabled")
			return
		}
		limit := parseIntParam(r, "limit", 20, 100)

		events, err := deps.History.RecentEvents(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list history: %v", err)
			return
		}
		if events == nil {
			events = []history.Event{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(events)
	}
}

// logEvent records an event, logging instead of failing the request when the
// history store rejects it.
func logEvent(h *history.Store, e history.Event) {
	if h == nil {
		return
	}
	if err := h.SaveEvent(e); err != nil {
		slog.Warn("failed to record history event", "kind", e.Kind, "error", err)
	}
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func httpError(w http.ResponseWriter, status int, errType, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Message: msg, Type: errType}})
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
