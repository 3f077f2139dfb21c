package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wedding-invites/internal/models"
)

func intPtr(n int) *int { return &n }

func TestCompute_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Compute(nil))
	assert.Equal(t, Summary{}, Compute([]models.Guest{}))
}

func TestCompute_SinglePendingWithCompanions(t *testing.T) {
	s := Compute([]models.Guest{
		{ID: "1", Status: models.StatusPending, NumberOfGuests: intPtr(2)},
	})

	assert.Equal(t, 1, s.TotalGuests)
	assert.Equal(t, 1, s.TotalPendingGuests)
	assert.Equal(t, 2, s.TotalPendingAccompanying)
	assert.Equal(t, 3, s.TotalPendingWithAccompanying)
	assert.Equal(t, 0, s.TotalConfirmedGuests)
	assert.Equal(t, 3, s.TotalGeneralWithAccompanying)
}

func TestCompute_MixedStatuses(t *testing.T) {
	guests := []models.Guest{
		{ID: "1", Status: models.StatusConfirmed, NumberOfGuests: intPtr(3)},
		{ID: "2", Status: models.StatusConfirmed},
		{ID: "3", Status: models.StatusPending, NumberOfGuests: intPtr(1)},
		{ID: "4", Status: models.StatusDeclined, NumberOfGuests: intPtr(5)},
		{ID: "5"}, // missing status counts as pending
	}

	s := Compute(guests)

	assert.Equal(t, 5, s.TotalGuests)
	assert.Equal(t, 2, s.TotalConfirmedGuests)
	assert.Equal(t, 3, s.TotalConfirmedAccompanying)
	assert.Equal(t, 5, s.TotalConfirmedWithAccompanying)
	assert.Equal(t, 2, s.TotalPendingGuests)
	assert.Equal(t, 1, s.TotalPendingAccompanying)
	assert.Equal(t, 3, s.TotalPendingWithAccompanying)
	assert.Equal(t, 6, s.TotalDeclinedWithAccompanying)
	assert.Equal(t, 8, s.TotalGeneralWithAccompanying)
}

func TestCompute_BucketsAreMutuallyExclusive(t *testing.T) {
	guests := []models.Guest{
		{ID: "1", Status: models.StatusConfirmed},
		{ID: "2", Status: models.StatusPending},
		{ID: "3", Status: models.StatusDeclined},
	}

	s := Compute(guests)

	declinedGuests := s.TotalDeclinedWithAccompanying // no companions allocated
	assert.Equal(t, s.TotalGuests,
		s.TotalConfirmedGuests+s.TotalPendingGuests+declinedGuests,
		"every guest lands in exactly one bucket")
}

func TestCompute_GeneralIsConfirmedPlusPending(t *testing.T) {
	guests := []models.Guest{
		{ID: "1", Status: models.StatusConfirmed, NumberOfGuests: intPtr(2)},
		{ID: "2", Status: models.StatusPending, NumberOfGuests: intPtr(4)},
		{ID: "3", Status: models.StatusDeclined, NumberOfGuests: intPtr(9)},
	}

	s := Compute(guests)

	assert.Equal(t, s.TotalConfirmedWithAccompanying+s.TotalPendingWithAccompanying,
		s.TotalGeneralWithAccompanying)
}

func TestCompute_NilNumberOfGuestsCountsAsZero(t *testing.T) {
	s := Compute([]models.Guest{
		{ID: "1", Status: models.StatusConfirmed, NumberOfGuests: nil},
	})

	assert.Equal(t, 1, s.TotalConfirmedWithAccompanying)
	assert.Equal(t, 0, s.TotalConfirmedAccompanying)
}
