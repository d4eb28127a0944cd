package domain

import "time"

// BlackoutRange represents an administrator-defined interval during which
// no bookings are permitted (e.g., holidays)
type BlackoutRange struct {
	ID        int64
	StartAt   time.Time
	EndAt     time.Time // StartAt < EndAt
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps returns true if the blackout overlaps [start, end).
// Half-open semantics: [s1,e1) and [s2,e2) overlap iff s1 < e2 and s2 < e1.
func (b *BlackoutRange) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && start.Before(b.EndAt)
}

// Validate checks the range bounds
func (b *BlackoutRange) Validate() error {
	if !b.StartAt.Before(b.EndAt) {
		return ErrInvalidTimeRange
	}
	return nil
}
