package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
)

func Test_ClassifyDays_WindowBoundaries(t *testing.T) {
	w := DefaultWindows()
	cases := []struct {
		days  int
		class Class
		level Level
	}{
		{-1, ClassExpired, LevelCritical},
		{0, ClassCritical, LevelCritical},
		{7, ClassCritical, LevelCritical},
		{8, ClassExpiring, LevelUrgent},
		{15, ClassExpiring, LevelUrgent},
		{16, ClassExpiring, LevelAttention},
		{30, ClassExpiring, LevelAttention},
		{31, ClassOK, LevelNormal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.class, ClassifyDays(tc.days, w), "class for %d days", tc.days)
		assert.Equal(t, tc.level, LevelFor(tc.days, w), "level for %d days", tc.days)
	}
}

func Test_DaysUntil_UsesCalendarDaysInLocation(t *testing.T) {
	// arrange
	bogota := time.FixedZone("COT", -5*60*60)
	// 02:00 UTC on the 10th is still the 9th in Bogota (UTC-5).
	now := time.Date(2024, 11, 10, 2, 0, 0, 0, time.UTC)
	exp := types.MustDate("2024-11-13")

	// act + assert
	assert.Equal(t, 3, DaysUntil(exp, now, time.UTC))
	assert.Equal(t, 4, DaysUntil(exp, now, bogota))
	assert.Equal(t, -1, DaysUntil(types.MustDate("2024-11-09"), now, time.UTC))
}

func Test_Classify_LateInTheDayStillSameDay(t *testing.T) {
	b := batch(cookie, "L004", 200, "2024-10-11", "2025-01-11")
	now := time.Date(2025, 1, 4, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, ClassCritical, Classify(b, now, DefaultWindows()))
	assert.Equal(t, ClassExpiring, Classify(b, now.Add(-24*time.Hour), DefaultWindows()))
}

func Test_ExpiringWithin_SortedAndActiveOnly(t *testing.T) {
	// arrange
	now := at("2025-01-01")
	batches := []types.Batch{
		batch(flour, "far", 10, "2024-10-01", "2025-03-01"),
		batch(flour, "soon", 10, "2024-10-01", "2025-01-20"),
		batch(flour, "sooner", 10, "2024-10-01", "2025-01-03"),
		batch(flour, "empty", 0, "2024-10-01", "2025-01-02"),
		batch(flour, "gone", 10, "2024-10-01", "2024-12-31"),
	}

	// act
	got := ExpiringWithin(batches, 30, now, DefaultWindows())

	// assert
	require.Len(t, got, 2)
	assert.Equal(t, "sooner", got[0].BatchNumber)
	assert.Equal(t, 2, got[0].DaysLeft)
	assert.Equal(t, LevelCritical, got[0].Level)
	assert.Equal(t, "soon", got[1].BatchNumber)
	assert.Equal(t, LevelAttention, got[1].Level)
}

func Test_Windows_Validate(t *testing.T) {
	assert.NoError(t, DefaultWindows().Validate())
	assert.Error(t, Windows{Critical: 10, Urgent: 5, Expiring: 30}.Validate())
	assert.Error(t, Windows{Critical: -1, Urgent: 5, Expiring: 30}.Validate())
}
