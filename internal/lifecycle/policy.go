// Package lifecycle holds the rules governing parcel status transitions and
// how parcel collections are filtered for display.
package lifecycle

import (
	"strings"

	"parcel-track-api-server/internal/apperr"
	"parcel-track-api-server/internal/models"
)

// FilterAll is the extra display bucket that matches every status.
const FilterAll = "all"

// Policy decides which status transitions are legal. A nil transition table
// permits everything, which matches the observed product behavior; the
// strict table exists because unrestricted backward transitions
// (delivered -> pending) are almost certainly unwanted.
type Policy struct {
	allowed map[string][]string
}

// DefaultPolicy permits any transition between the four statuses.
func DefaultPolicy() *Policy {
	return &Policy{}
}

// StrictPolicy permits only forward movement plus cancellation before
// delivery. Delivered and cancelled are terminal.
func StrictPolicy() *Policy {
	return &Policy{allowed: map[string][]string{
		models.StatusPending:   {models.StatusInTransit, models.StatusCancelled},
		models.StatusInTransit: {models.StatusDelivered, models.StatusCancelled},
		models.StatusDelivered: {},
		models.StatusCancelled: {},
	}}
}

// FromConfig picks the policy by the lifecycle.strict flag.
func FromConfig(strict bool) *Policy {
	if strict {
		return StrictPolicy()
	}
	return DefaultPolicy()
}

// IsValidStatus reports whether s is one of the four parcel statuses.
func IsValidStatus(s string) bool {
	for _, v := range models.AllStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// Check validates a requested transition. It returns noop=true when the new
// status equals the current one: re-submitting the same status must not
// produce a redundant history entry.
func (p *Policy) Check(current, next string) (noop bool, err error) {
	if !IsValidStatus(next) {
		return false, apperr.Validation("unknown parcel status", "status")
	}
	if current == next {
		return true, nil
	}
	if p.allowed == nil {
		return false, nil
	}
	for _, v := range p.allowed[current] {
		if v == next {
			return false, nil
		}
	}
	return false, apperr.Validation("status transition not permitted", "status")
}

// FilterByStatus returns the parcels in the given display bucket.
func FilterByStatus(parcels []models.Parcel, status string) []models.Parcel {
	if status == "" || status == FilterAll {
		return parcels
	}
	out := []models.Parcel{}
	for _, p := range parcels {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// Counts computes per-bucket totals for UI badges, including "all".
func Counts(parcels []models.Parcel) map[string]int {
	counts := map[string]int{FilterAll: len(parcels)}
	for _, s := range models.AllStatuses() {
		counts[s] = 0
	}
	for _, p := range parcels {
		counts[p.Status]++
	}
	return counts
}

// Search matches parcels whose tracking number or title contains the query,
// case-insensitively. An empty query matches everything.
func Search(parcels []models.Parcel, query string) []models.Parcel {
	q := strings.ToLower(query)
	if q == "" {
		return parcels
	}
	out := []models.Parcel{}
	for _, p := range parcels {
		if strings.Contains(strings.ToLower(p.TrackingNumber), q) ||
			strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}
