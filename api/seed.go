/*
seed.go - Demo roster for development and demos

PURPOSE:
  Registers a fixed roster of sales reps so the person selector has
  something to show on a fresh database. Optionally books a sample range
  for the first rep through the normal submit path.

USAGE VIA API:
  POST /api/admin/seed
  {"with_sample_pto": true}

NOTE:
  Seeding is idempotent for the roster; the sample PTO is skipped when
  the rep already has PTO on those dates.
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/warp/pto-tracker/generic"
	"github.com/warp/pto-tracker/timeoff"
)

// DemoRoster is the list of reps registered by SeedRoster.
var DemoRoster = []string{
	"Alex Morgan",
	"Casey Rivera",
	"Jordan Lee",
	"Riley Chen",
	"Taylor Brooks",
}

// SeedRequest controls what SeedRoster adds.
type SeedRequest struct {
	WithSamplePTO bool `json:"with_sample_pto"`
}

// SeedRoster registers the demo reps.
func (h *Handler) SeedRoster(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Seed(r.Context(), req.WithSamplePTO); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed roster", err)
		return
	}
	h.ListPeople(w, r)
}

// Seed registers DemoRoster and, if asked, books one sample week for the
// first rep: the Monday-Friday after today.
func (h *Handler) Seed(ctx context.Context, withSamplePTO bool) error {
	for _, name := range DemoRoster {
		if err := h.Store.AddPerson(ctx, name); err != nil {
			return err
		}
	}
	if !withSamplePTO {
		return nil
	}

	start := generic.Today().AddDays(1)
	for start.Weekday() != time.Monday {
		start = start.AddDays(1)
	}
	_, err := h.Submitter.Submit(ctx, timeoff.SubmitRequest{
		Person: DemoRoster[0],
		Start:  start,
		End:    start.AddDays(4),
		Kind:   generic.KindFullDay,
	})
	if generic.IsConflict(err) {
		return nil
	}
	return err
}
