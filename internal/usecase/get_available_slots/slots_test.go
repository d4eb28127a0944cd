package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestEnumerateSlotStarts(t *testing.T) {
	tests := []struct {
		name            string
		durationMinutes int
		wantCount       int
		wantFirst       types.TimeString
		wantLast        types.TimeString
	}{
		// Рабочий день 09:00-18:00, шаг 30 минут
		{"30 min service", 30, 18, "09:00", "17:30"},
		{"60 min service", 60, 17, "09:00", "17:00"},
		{"90 min service", 90, 16, "09:00", "16:30"},
		{"full day service", 540, 1, "09:00", "09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starts, err := enumerateSlotStarts(tt.durationMinutes)
			require.NoError(t, err)
			require.Len(t, starts, tt.wantCount)
			assert.Equal(t, tt.wantFirst, starts[0])
			assert.Equal(t, tt.wantLast, starts[len(starts)-1])
		})
	}
}

func TestEnumerateSlotStarts_ServiceLongerThanDay(t *testing.T) {
	starts, err := enumerateSlotStarts(600)
	require.NoError(t, err)
	assert.Empty(t, starts, "service longer than the business day has no slots")
}

func TestSlotStartAt(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	date := time.Date(2026, 9, 20, 0, 0, 0, 0, loc)

	startAt, err := slotStartAt(date, types.TimeString("14:30"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 20, 14, 30, 0, 0, loc), startAt)
	assert.Equal(t, loc, startAt.Location(), "slot keeps the date's location")
}

type slotsCatalog struct {
	service *domain.Service
}

func (c *slotsCatalog) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	if c.service == nil || c.service.ID != id {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return c.service, nil
}

// scriptedChecker помечает недоступными слоты из списка busy
type scriptedChecker struct {
	busy map[string]string // "HH:MM" -> причина отказа
}

func (c *scriptedChecker) Check(_ context.Context, _ *domain.Service, startAt time.Time, _ *int64) (availability.Verdict, error) {
	if reason, ok := c.busy[startAt.Format(domain.TimeFormat)]; ok {
		return availability.Verdict{Available: false, Reason: reason}, nil
	}
	return availability.Verdict{Available: true}, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestUseCase_Execute(t *testing.T) {
	service := &domain.Service{
		ID:              1,
		Name:            "Haircut",
		Price:           decimal.RequireFromString("30.00"),
		DurationMinutes: 60,
		IsActive:        true,
	}

	checker := &scriptedChecker{busy: map[string]string{
		"10:00": "time slot full (max 3 concurrent appointments)",
		"10:30": "time slot blocked: Holiday",
	}}

	uc := NewUseCase(&slotsCatalog{service: service}, checker, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1,
		Date:      time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-09-20", resp.Date)
	require.Len(t, resp.Slots, 17)

	bySlot := make(map[types.TimeString]SlotInfo, len(resp.Slots))
	for _, s := range resp.Slots {
		assert.Equal(t, 60, s.DurationMinutes)
		bySlot[s.StartTime] = s
	}

	assert.True(t, bySlot["09:00"].IsAvailable)
	assert.Empty(t, bySlot["09:00"].Reason)

	require.Contains(t, bySlot, types.TimeString("10:00"))
	assert.False(t, bySlot["10:00"].IsAvailable)
	assert.Equal(t, "time slot full (max 3 concurrent appointments)", bySlot["10:00"].Reason)

	assert.False(t, bySlot["10:30"].IsAvailable)
	assert.Equal(t, "time slot blocked: Holiday", bySlot["10:30"].Reason)

	assert.True(t, bySlot["17:00"].IsAvailable, "last slot that fits before closing")
	assert.NotContains(t, bySlot, types.TimeString("17:30"), "60 min service does not fit at 17:30")
}

func TestUseCase_Execute_ServiceNotFound(t *testing.T) {
	uc := NewUseCase(&slotsCatalog{}, &scriptedChecker{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: 99,
		Date:      time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
	})

	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	uc := NewUseCase(&slotsCatalog{}, &scriptedChecker{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 0, Date: time.Now()})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
}
