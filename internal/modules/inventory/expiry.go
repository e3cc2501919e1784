package inventory

import (
	"fmt"
	"sort"
	"time"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
)

// Windows are the inclusive day thresholds used to flag batches.
type Windows struct {
	Critical int `json:"critical" yaml:"critical"`
	Urgent   int `json:"urgent" yaml:"urgent"`
	Expiring int `json:"expiring" yaml:"expiring"`
}

func DefaultWindows() Windows {
	return Windows{Critical: 7, Urgent: 15, Expiring: 30}
}

func (w Windows) Validate() error {
	if w.Critical < 0 || w.Urgent < w.Critical || w.Expiring < w.Urgent {
		return fmt.Errorf("invalid expiry windows: need 0 <= critical(%d) <= urgent(%d) <= expiring(%d)", w.Critical, w.Urgent, w.Expiring)
	}
	return nil
}

// Class is the dashboard bucket of a batch.
type Class string

const (
	ClassExpired  Class = "expired"
	ClassCritical Class = "critical"
	ClassExpiring Class = "expiring"
	ClassOK       Class = "ok"
)

// Level is the badge shown next to a batch.
type Level string

const (
	LevelCritical  Level = "critical"
	LevelUrgent    Level = "urgent"
	LevelAttention Level = "attention"
	LevelNormal    Level = "normal"
)

// Today is the calendar day of now in now's location.
func Today(now time.Time) types.Date {
	return types.DateOf(now)
}

// DaysUntil counts calendar days from today (in loc) to exp. It is negative
// once exp has passed. A nil loc means now's own location.
func DaysUntil(exp types.Date, now time.Time, loc *time.Location) int {
	if loc != nil {
		now = now.In(loc)
	}
	return Today(now).DaysUntil(exp)
}

func ClassifyDays(days int, w Windows) Class {
	switch {
	case days < 0:
		return ClassExpired
	case days <= w.Critical:
		return ClassCritical
	case days <= w.Expiring:
		return ClassExpiring
	default:
		return ClassOK
	}
}

func Classify(b types.Batch, now time.Time, w Windows) Class {
	return ClassifyDays(DaysUntil(b.ExpirationDate, now, nil), w)
}

// LevelFor maps days left to a badge. Expired batches are critical.
func LevelFor(days int, w Windows) Level {
	switch {
	case days <= w.Critical:
		return LevelCritical
	case days <= w.Urgent:
		return LevelUrgent
	case days <= w.Expiring:
		return LevelAttention
	default:
		return LevelNormal
	}
}

// ExpiryStatus is a batch annotated with its distance to expiration.
type ExpiryStatus struct {
	types.Batch
	DaysLeft int   `json:"days_left"`
	Class    Class `json:"class"`
	Level    Level `json:"level"`
}

func StatusOf(b types.Batch, now time.Time, w Windows) ExpiryStatus {
	days := DaysUntil(b.ExpirationDate, now, nil)
	return ExpiryStatus{Batch: b, DaysLeft: days, Class: ClassifyDays(days, w), Level: LevelFor(days, w)}
}

// ExpiringWithin returns active batches expiring between today and
// today+days inclusive, soonest first. Expired batches are excluded.
func ExpiringWithin(batches []types.Batch, days int, now time.Time, w Windows) []ExpiryStatus {
	out := make([]ExpiryStatus, 0)
	for _, b := range batches {
		if !b.IsActive() {
			continue
		}
		st := StatusOf(b, now, w)
		if st.DaysLeft >= 0 && st.DaysLeft <= days {
			out = append(out, st)
		}
	}
	sortByExpiration(out)
	return out
}

func sortByExpiration(s []ExpiryStatus) {
	sort.SliceStable(s, func(i, j int) bool {
		if !s[i].ExpirationDate.Equal(s[j].ExpirationDate) {
			return s[i].ExpirationDate.Before(s[j].ExpirationDate)
		}
		return fifoLess(s[i].Batch, s[j].Batch)
	})
}
