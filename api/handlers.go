/*
handlers.go - HTTP API handlers for the PTO tracker

PURPOSE:
  Exposes the PTO services over a REST API. This is the surface a form
  front end talks to: a person selector, a date-range submit, and an
  editable table of existing entries with a save action.

ENDPOINTS:
  People:
    GET    /api/people                               List people
    POST   /api/people                               Register a person

  Entries:
    GET    /api/people/{person}/entries              Entries, newest first
    POST   /api/people/{person}/entries/range        Submit a date range
    PUT    /api/people/{person}/entries              Save the edited table
                                                      (original_ids: rows the client loaded)
    POST   /api/people/{person}/entries/preview      Plan a save, no writes
    GET    /api/people/{person}/entries/export.xlsx  Spreadsheet download
    GET    /api/people/{person}/usage?as_of=         Days off in the current period

  Admin:
    POST   /api/admin/seed                           Register demo reps
    POST   /api/admin/reset                          Clear all data (dev only)

REQUEST FLOW:
  1. Parse HTTP request
  2. Parse dates and day types
  3. Call timeoff.Submitter / timeoff.Reconciler
  4. Serialize response
  5. Map errors to status codes

ERROR HANDLING:
  - 400: InvalidRange, RangeTooLong, WeekendDate, DuplicateInBatch, bad input
  - 409: DuplicateDate (a save still returns the refreshed table)
  - 500: PersistenceError

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/warp/pto-tracker/export"
	"github.com/warp/pto-tracker/generic"
	"github.com/warp/pto-tracker/timeoff"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is what the handlers need from the persistence layer.
type Store interface {
	generic.TxStore
	generic.PeopleRegistry
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      Store
	Submitter  *timeoff.Submitter
	Reconciler *timeoff.Reconciler
	Usage      *timeoff.UsageCalculator
}

// NewHandler creates a new handler with the given store and save policy.
func NewHandler(store Store, policy timeoff.Policy) *Handler {
	locks := &timeoff.PersonLocks{}
	return &Handler{
		Store:      store,
		Submitter:  timeoff.NewSubmitter(store, locks),
		Reconciler: timeoff.NewReconciler(store, policy, locks),
		Usage:      &timeoff.UsageCalculator{Store: store},
	}
}

// =============================================================================
// PEOPLE HANDLERS
// =============================================================================

// ListPeople returns every known person.
func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.Store.ListPeople(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list people", err)
		return
	}

	dtos := make([]PersonDTO, len(people))
	for i, p := range people {
		dtos[i] = PersonDTO{Name: p}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePerson registers a person.
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	name := generic.NormalizePerson(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", generic.ErrPersonRequired)
		return
	}

	if err := h.Store.AddPerson(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create person", err)
		return
	}
	writeJSON(w, http.StatusCreated, PersonDTO{Name: name})
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// ListEntries returns a person's PTO table.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	person := personParam(r)

	set, err := h.loadEntrySet(r.Context(), person)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntrySetDTO(set))
}

// SubmitRange requests PTO on every business day of a date range.
func (h *Handler) SubmitRange(w http.ResponseWriter, r *http.Request) {
	person := personParam(r)

	var req SubmitRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := generic.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := generic.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}
	kind, err := generic.ParseKind(req.DayType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day_type (use Full Day or Half Day)", err)
		return
	}

	result, err := h.Submitter.Submit(r.Context(), timeoff.SubmitRequest{
		Person: person,
		Start:  start,
		End:    end,
		Kind:   kind,
	})
	if err != nil {
		writeDomainError(w, "Failed to submit time off", err)
		return
	}

	log.Printf("[Submit] %s: %d day(s) from %s to %s (%s)",
		person, len(result.Inserted), start, end, kind.Label())
	writeJSON(w, http.StatusCreated, SubmitRangeResponse{
		Person:   person,
		Inserted: dateStrings(result.Inserted),
		Message:  result.Message(),
	})
}

// SaveEntries applies the edited table to the store.
func (h *Handler) SaveEntries(w http.ResponseWriter, r *http.Request) {
	person := personParam(r)

	loaded, edited, ok := decodeEditedRows(w, r)
	if !ok {
		return
	}
	stored, err := h.loadEntrySet(r.Context(), person)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}
	original := timeoff.LoadedSnapshot(stored, loaded, edited)

	result, err := h.Reconciler.Save(r.Context(), original, edited)
	var dup *generic.DuplicateDateError
	if errors.As(err, &dup) && result != nil {
		log.Printf("[Reconcile] %s: saved with %d conflicting date(s)", person, len(dup.Dates))
		writeJSON(w, http.StatusConflict, SaveEntriesResponse{
			Plan:    toPlanDTO(result.Plan),
			Entries: toEntrySetDTO(result.Entries),
			Message: dup.Error(),
		})
		return
	}
	if err != nil {
		writeDomainError(w, "Failed to save changes", err)
		return
	}

	log.Printf("[Reconcile] %s: %d delete(s), %d update(s), %d insert(s)",
		person, len(result.Plan.Deletes), len(result.Plan.Updates), len(result.Plan.Inserts))
	writeJSON(w, http.StatusOK, SaveEntriesResponse{
		Plan:    toPlanDTO(result.Plan),
		Entries: toEntrySetDTO(result.Entries),
		Message: "Changes saved.",
	})
}

// PreviewEntries returns the plan a save would apply without writing.
func (h *Handler) PreviewEntries(w http.ResponseWriter, r *http.Request) {
	person := personParam(r)

	loaded, edited, ok := decodeEditedRows(w, r)
	if !ok {
		return
	}
	stored, err := h.loadEntrySet(r.Context(), person)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}
	original := timeoff.LoadedSnapshot(stored, loaded, edited)

	plan, err := timeoff.Diff(original, edited, h.Reconciler.Policy)
	if err != nil {
		writeDomainError(w, "Invalid changes", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// ExportEntries streams the person's table as an xlsx file.
func (h *Handler) ExportEntries(w http.ResponseWriter, r *http.Request) {
	person := personParam(r)

	set, err := h.loadEntrySet(r.Context(), person)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(person)))
	if err := export.WriteXLSX(w, set); err != nil {
		log.Printf("[Export] %s: %v", person, err)
	}
}

// GetUsage summarizes days off in the period containing as_of (default today).
func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	person := personParam(r)

	asOf := generic.Today()
	if s := r.URL.Query().Get("as_of"); s != "" {
		d, err := generic.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
			return
		}
		asOf = d
	}

	usage, err := h.Usage.Calculate(r.Context(), person, asOf)
	if err != nil {
		writeDomainError(w, "Failed to calculate usage", err)
		return
	}
	writeJSON(w, http.StatusOK, toUsageDTO(usage))
}

func (h *Handler) loadEntrySet(ctx context.Context, person string) (generic.EntrySet, error) {
	entries, err := h.Store.ListEntries(ctx, person)
	if err != nil {
		return generic.EntrySet{}, err
	}
	if entries == nil {
		entries = []generic.Entry{}
	}
	return generic.EntrySet{Person: person, Entries: entries}, nil
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// personParam is the {person} URL segment, unescaped and normalized. chi
// matches on the raw path when it differs from the decoded one (an encoded
// "/" in a name), and then returns the segment still escaped.
func personParam(r *http.Request) string {
	person := chi.URLParam(r, "person")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(person); err == nil {
			person = unescaped
		}
	}
	return generic.NormalizePerson(person)
}

// decodeEditedRows returns the loaded row ids (nil if the client sent none)
// and the edited rows.
func decodeEditedRows(w http.ResponseWriter, r *http.Request) ([]generic.RowID, []generic.EditedRow, bool) {
	var req SaveEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, nil, false
	}

	var loaded []generic.RowID
	if req.OriginalIDs != nil {
		loaded = make([]generic.RowID, len(req.OriginalIDs))
		for i, id := range req.OriginalIDs {
			loaded[i] = generic.RowID(id)
		}
	}

	rows := make([]generic.EditedRow, len(req.Rows))
	for i, row := range req.Rows {
		date, err := generic.ParseDate(row.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Row %d: invalid date (use YYYY-MM-DD)", i+1), err)
			return nil, nil, false
		}
		kind, err := generic.ParseKind(row.Kind)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Row %d: invalid PTO type", i+1), err)
			return nil, nil, false
		}
		rows[i] = generic.EditedRow{Origin: generic.RowID(row.ID), Date: date, Kind: kind}
	}
	return loaded, rows, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps service errors to a status code and error code.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	resp := ErrorResponse{Error: message, Code: errorCode(err), Details: err.Error()}
	switch {
	case generic.IsConflict(err):
		writeJSON(w, http.StatusConflict, resp)
	case generic.IsClientError(err):
		writeJSON(w, http.StatusBadRequest, resp)
	default:
		log.Printf("[API] %s: %v", message, err)
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, generic.ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, generic.ErrRangeTooLong):
		return "range_too_long"
	case errors.Is(err, generic.ErrDuplicateDate):
		return "duplicate_date"
	case errors.Is(err, generic.ErrDuplicateInBatch):
		return "duplicate_in_batch"
	case errors.Is(err, generic.ErrWeekendDate):
		return "weekend_date"
	case errors.Is(err, generic.ErrUnknownRow):
		return "unknown_row"
	case errors.Is(err, generic.ErrPersistence):
		return "persistence"
	case generic.IsClientError(err):
		return "invalid_input"
	}
	return ""
}

func exportFilename(person string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, person)
	if name == "" {
		name = "pto"
	}
	return name + "_pto.xlsx"
}
