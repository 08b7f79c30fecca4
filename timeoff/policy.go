// Package timeoff implements the two PTO services: the Submitter expands a
// date range into new entries, and the Reconciler applies a user-edited
// table against what is stored.
package timeoff

import (
	"fmt"
	"strings"
)

// =============================================================================
// POLICY - How a save treats weekend rows and date conflicts
// =============================================================================

// WeekendPolicy decides what happens when an edited row falls on a weekend.
type WeekendPolicy string

const (
	// WeekendReject rejects the whole save; nothing is written.
	WeekendReject WeekendPolicy = "reject"
	// WeekendSkip drops only the weekend rows and applies the rest.
	WeekendSkip WeekendPolicy = "skip"
)

// ConflictPolicy decides what happens when new rows collide with stored dates.
type ConflictPolicy string

const (
	// ConflictCommitValid applies every non-conflicting change and reports
	// the conflicting dates.
	ConflictCommitValid ConflictPolicy = "commit-valid"
	// ConflictAbort rolls back the whole save when any date conflicts.
	ConflictAbort ConflictPolicy = "abort"
)

type Policy struct {
	Weekend  WeekendPolicy
	Conflict ConflictPolicy
}

// DefaultPolicy rejects weekend rows outright and commits the valid subset
// on conflicts.
func DefaultPolicy() Policy {
	return Policy{Weekend: WeekendReject, Conflict: ConflictCommitValid}
}

func ParseWeekendPolicy(s string) (WeekendPolicy, error) {
	switch p := WeekendPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case WeekendReject, WeekendSkip:
		return p, nil
	}
	return "", fmt.Errorf("unknown weekend policy %q (use %q or %q)", s, WeekendReject, WeekendSkip)
}

func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ConflictCommitValid, ConflictAbort:
		return p, nil
	}
	return "", fmt.Errorf("unknown conflict policy %q (use %q or %q)", s, ConflictCommitValid, ConflictAbort)
}

// ParsePolicy builds a Policy from its two string settings.
func ParsePolicy(weekend, conflict string) (Policy, error) {
	w, err := ParseWeekendPolicy(weekend)
	if err != nil {
		return Policy{}, err
	}
	c, err := ParseConflictPolicy(conflict)
	if err != nil {
		return Policy{}, err
	}
	return Policy{Weekend: w, Conflict: c}, nil
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.Weekend == "" {
		p.Weekend = d.Weekend
	}
	if p.Conflict == "" {
		p.Conflict = d.Conflict
	}
	return p
}
