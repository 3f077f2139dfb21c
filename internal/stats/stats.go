// Package stats derives summary counters from a guest list snapshot. The
// aggregation is a total recompute on every call rather than an incremental
// patch, so the counters can never drift from the list they describe.
package stats

import "wedding-invites/internal/models"

// Summary holds the per-status counters for one guest list. The
// "WithAccompanying" figures count the guest plus their allocated
// companion seats.
type Summary struct {
	TotalGuests                    int `json:"totalGuests"`
	TotalConfirmedGuests           int `json:"totalConfirmedGuests"`
	TotalConfirmedAccompanying     int `json:"totalConfirmedAccompanying"`
	TotalConfirmedWithAccompanying int `json:"totalConfirmedWithAccompanying"`
	TotalPendingGuests             int `json:"totalPendingGuests"`
	TotalPendingAccompanying       int `json:"totalPendingAccompanying"`
	TotalPendingWithAccompanying   int `json:"totalPendingWithAccompanying"`
	TotalDeclinedWithAccompanying  int `json:"totalDeclinedWithAccompanying"`
	TotalGeneralWithAccompanying   int `json:"totalGeneralWithAccompanying"`
}

// Compute aggregates a guest snapshot. Status buckets are mutually
// exclusive; a missing status counts as pending, matching the guest
// normalization rules.
func Compute(guests []models.Guest) Summary {
	var s Summary
	s.TotalGuests = len(guests)

	var declinedGuests, declinedAccompanying int
	for _, g := range guests {
		seats := g.CompanionSeats()
		switch g.Status {
		case models.StatusConfirmed:
			s.TotalConfirmedGuests++
			s.TotalConfirmedAccompanying += seats
		case models.StatusDeclined:
			declinedGuests++
			declinedAccompanying += seats
		default:
			s.TotalPendingGuests++
			s.TotalPendingAccompanying += seats
		}
	}

	s.TotalConfirmedWithAccompanying = s.TotalConfirmedGuests + s.TotalConfirmedAccompanying
	s.TotalPendingWithAccompanying = s.TotalPendingGuests + s.TotalPendingAccompanying
	s.TotalDeclinedWithAccompanying = declinedGuests + declinedAccompanying
	s.TotalGeneralWithAccompanying = s.TotalConfirmedWithAccompanying + s.TotalPendingWithAccompanying
	return s
}
