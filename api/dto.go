/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model in generic/ from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers and the timeoff services, not in DTOs.
  Dates travel as YYYY-MM-DD strings and are parsed in handlers so a bad
  value can be reported per field.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/pto-tracker/generic"
	"github.com/warp/pto-tracker/timeoff"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PersonDTO is one entry of the person selector.
type PersonDTO struct {
	Name string `json:"name"`
}

// CreatePersonRequest registers a sales rep.
type CreatePersonRequest struct {
	Name string `json:"name"`
}

// EntryDTO is one row of the editable PTO table.
type EntryDTO struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Kind        string  `json:"kind"`
	PTO         string  `json:"pto"`
	HoursWorked float64 `json:"hours_worked"`
}

// EntrySetDTO is a person's PTO table, newest first.
type EntrySetDTO struct {
	Person  string     `json:"person"`
	Entries []EntryDTO `json:"entries"`
}

// SubmitRangeRequest asks for PTO on every business day of a range.
type SubmitRangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	DayType   string `json:"day_type"` // "Full Day" | "Half Day"
}

// SubmitRangeResponse reports the dates inserted by a range submit.
type SubmitRangeResponse struct {
	Person   string   `json:"person"`
	Inserted []string `json:"inserted"`
	Message  string   `json:"message"`
}

// EditedRowDTO is one row of the table as the user left it. ID is empty
// for a row the user added.
type EditedRowDTO struct {
	ID   string `json:"id,omitempty"`
	Date string `json:"date"`
	Kind string `json:"kind"`
}

// SaveEntriesRequest carries the whole edited table. OriginalIDs lists the
// row ids of the table as the client loaded it; only those rows can be
// deleted. Without it, only the rows referenced by Rows are considered.
type SaveEntriesRequest struct {
	OriginalIDs []string       `json:"original_ids"`
	Rows        []EditedRowDTO `json:"rows"`
}

// UpdateDTO describes one row moved or re-typed by a save.
type UpdateDTO struct {
	ID      string `json:"id"`
	OldDate string `json:"old_date"`
	NewDate string `json:"new_date"`
	Kind    string `json:"kind"`
}

// SkippedRowDTO is a weekend row dropped under the skip policy.
type SkippedRowDTO struct {
	Row  int    `json:"row"`
	Date string `json:"date"`
}

// PlanDTO is the set of writes a save performs (or would perform).
type PlanDTO struct {
	Deletes   []string        `json:"deletes"`
	Updates   []UpdateDTO     `json:"updates"`
	Inserts   []string        `json:"inserts"`
	Skipped   []SkippedRowDTO `json:"skipped,omitempty"`
	Conflicts []string        `json:"conflicts,omitempty"`
}

// SaveEntriesResponse is returned by a save, including a partial one.
type SaveEntriesResponse struct {
	Plan    PlanDTO     `json:"plan"`
	Entries EntrySetDTO `json:"entries"`
	Message string      `json:"message,omitempty"`
}

// UsageDTO is the days-off summary for one period.
type UsageDTO struct {
	Person      string  `json:"person"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	FullDays    int     `json:"full_days"`
	HalfDays    int     `json:"half_days"`
	DaysOff     string  `json:"days_off"`
	Allowance   *string `json:"allowance,omitempty"`
	Remaining   *string `json:"remaining,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEntryDTO(e generic.Entry) EntryDTO {
	hours, _ := e.HoursWorked().Float64()
	return EntryDTO{
		ID:          string(e.ID),
		Date:        e.Date.String(),
		Kind:        string(e.Kind),
		PTO:         e.Kind.Label(),
		HoursWorked: hours,
	}
}

func toEntrySetDTO(set generic.EntrySet) EntrySetDTO {
	dto := EntrySetDTO{Person: set.Person, Entries: make([]EntryDTO, len(set.Entries))}
	for i, e := range set.Entries {
		dto.Entries[i] = toEntryDTO(e)
	}
	return dto
}

func toPlanDTO(p timeoff.Plan) PlanDTO {
	dto := PlanDTO{
		Deletes:   dateStrings(p.Deletes),
		Updates:   make([]UpdateDTO, len(p.Updates)),
		Inserts:   make([]string, len(p.Inserts)),
		Conflicts: dateStrings(p.Conflicts),
	}
	for i, u := range p.Updates {
		dto.Updates[i] = UpdateDTO{
			ID:      string(u.ID),
			OldDate: u.OldDate.String(),
			NewDate: u.NewDate.String(),
			Kind:    u.Kind.Label(),
		}
	}
	for i, e := range p.Inserts {
		dto.Inserts[i] = e.Date.String()
	}
	for _, s := range p.Skipped {
		dto.Skipped = append(dto.Skipped, SkippedRowDTO{Row: s.Index + 1, Date: s.Date.String()})
	}
	return dto
}

func dateStrings(dates []generic.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

func toUsageDTO(u timeoff.Usage) UsageDTO {
	dto := UsageDTO{
		Person:      u.Person,
		PeriodStart: u.Period.Start.String(),
		PeriodEnd:   u.Period.End.String(),
		FullDays:    u.FullDays,
		HalfDays:    u.HalfDays,
		DaysOff:     u.DaysOff().String(),
	}
	if u.Tracked() {
		allowance, remaining := u.Allowance.String(), u.Remaining().String()
		dto.Allowance, dto.Remaining = &allowance, &remaining
	}
	return dto
}
