package appointments

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRefundPercentage(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		startAt time.Time
		want    int
	}{
		{"more than 48h ahead", now.Add(48*time.Hour + time.Minute), 100},
		{"a week ahead", now.Add(7 * 24 * time.Hour), 100},
		{"exactly 48h ahead", now.Add(48 * time.Hour), 50},
		{"between 24h and 48h", now.Add(36 * time.Hour), 50},
		{"just over 24h", now.Add(24*time.Hour + time.Minute), 50},
		{"exactly 24h ahead", now.Add(24 * time.Hour), 0},
		{"a few hours ahead", now.Add(3 * time.Hour), 0},
		{"already started", now.Add(-time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, refundPercentage(now, tt.startAt))
		})
	}
}

func TestRefundAmount(t *testing.T) {
	paid := decimal.RequireFromString("100.00")

	assert.True(t, refundAmount(paid, 100).Equal(decimal.RequireFromString("100.00")))
	assert.True(t, refundAmount(paid, 50).Equal(decimal.RequireFromString("50.00")))
	assert.True(t, refundAmount(paid, 0).Equal(decimal.Zero))

	// Округление до копеек
	odd := decimal.RequireFromString("33.33")
	assert.True(t, refundAmount(odd, 50).Equal(decimal.RequireFromString("16.67")),
		"got %s", refundAmount(odd, 50))

	assert.True(t, refundAmount(decimal.Zero, 100).Equal(decimal.Zero))
}
