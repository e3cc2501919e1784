package inventory

import "time"

// DigestMark records that the expiry digest for Day has been claimed by an
// instance.
type DigestMark struct {
	Day       Date      `gorm:"type:date;primaryKey;column:day" json:"day"`
	ClaimedAt time.Time `gorm:"not null;column:claimed_at" json:"claimed_at"`
}

func (DigestMark) TableName() string { return "expiry_digest_mark" }
