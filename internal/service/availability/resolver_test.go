package availability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type stubSettings struct {
	settings domain.ScheduleSettings
}

func (s *stubSettings) GetOrInit(_ context.Context) (*domain.ScheduleSettings, error) {
	out := s.settings
	return &out, nil
}

type stubBlackouts struct {
	ranges []*domain.BlackoutRange
}

func (s *stubBlackouts) FindFirstOverlapping(_ context.Context, start, end time.Time) (*domain.BlackoutRange, error) {
	for _, b := range s.ranges {
		if b.Overlaps(start, end) {
			return b, nil
		}
	}
	return nil, nil
}

type stubOverrides struct {
	overrides []*domain.SlotCapacityOverride
}

func (s *stubOverrides) GetByWindow(_ context.Context, date time.Time, timeStart, timeEnd types.TimeString) (*domain.SlotCapacityOverride, error) {
	for _, o := range s.overrides {
		if o.Date.Equal(date) && o.TimeStart == timeStart && o.TimeEnd == timeEnd {
			return o, nil
		}
	}
	return nil, nil
}

type stubAppointments struct {
	appts     []*domain.Appointment
	lockCalls int
}

func (s *stubAppointments) CountOverlapping(_ context.Context, start, end time.Time, excludeID *int64) (int, error) {
	count := 0
	for _, a := range s.appts {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.IsCounted() && a.Overlaps(start, end) {
			count++
		}
	}
	return count, nil
}

func (s *stubAppointments) LockOverlapping(_ context.Context, _, _ time.Time) error {
	s.lockCalls++
	return nil
}

type stubInventory struct {
	items map[int64]*domain.Item
}

func (s *stubInventory) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %d not found", id)
	}
	return item, nil
}

type quietLogger struct{}

func (quietLogger) Info(string, ...interface{})  {}
func (quietLogger) Warn(string, ...interface{})  {}
func (quietLogger) Error(string, ...interface{}) {}

type frozenClock struct{ now time.Time }

func (f frozenClock) Now() time.Time { return f.now }

var resolverNow = time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

type resolverFixture struct {
	settings  *stubSettings
	blackouts *stubBlackouts
	overrides *stubOverrides
	appts     *stubAppointments
	inventory *stubInventory
}

func newFixture() *resolverFixture {
	return &resolverFixture{
		settings: &stubSettings{settings: domain.ScheduleSettings{
			MaxConcurrent:     3,
			BookingWindowDays: 30,
		}},
		blackouts: &stubBlackouts{},
		overrides: &stubOverrides{},
		appts:     &stubAppointments{},
		inventory: &stubInventory{items: map[int64]*domain.Item{}},
	}
}

func (f *resolverFixture) resolver() *Resolver {
	return NewResolver(f.settings, f.blackouts, f.overrides, f.appts, f.inventory, quietLogger{}).
		WithTimeProvider(frozenClock{now: resolverNow})
}

func haircut() *domain.Service {
	return &domain.Service{
		ID:              1,
		Name:            "Haircut",
		DurationMinutes: 60,
		IsActive:        true,
	}
}

func TestResolver_Check_PastTime(t *testing.T) {
	f := newFixture()

	verdict, err := f.resolver().Check(context.Background(), haircut(), resolverNow.Add(-time.Minute), nil)

	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, ReasonPastTime, verdict.Reason)
}

func TestResolver_Check_BookingWindow(t *testing.T) {
	f := newFixture()
	r := f.resolver()

	// За пределами окна
	verdict, err := r.Check(context.Background(), haircut(), resolverNow.AddDate(0, 0, 31), nil)
	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, fmt.Sprintf(ReasonWindowExceededFmt, 30), verdict.Reason)

	// Внутри окна
	verdict, err = r.Check(context.Background(), haircut(), resolverNow.AddDate(0, 0, 29), nil)
	require.NoError(t, err)
	assert.True(t, verdict.Available)
}

func TestResolver_Check_Blackout(t *testing.T) {
	f := newFixture()
	start := resolverNow.Add(24 * time.Hour)
	f.blackouts.ranges = []*domain.BlackoutRange{{
		StartAt: start.Add(-time.Hour),
		EndAt:   start.Add(2 * time.Hour),
		Reason:  "Holiday",
	}}

	verdict, err := f.resolver().Check(context.Background(), haircut(), start, nil)

	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, fmt.Sprintf(ReasonBlockedFmt, "Holiday"), verdict.Reason)
}

func TestResolver_Check_BlackoutWithoutReason(t *testing.T) {
	f := newFixture()
	start := resolverNow.Add(24 * time.Hour)
	f.blackouts.ranges = []*domain.BlackoutRange{{
		StartAt: start,
		EndAt:   start.Add(time.Hour),
	}}

	verdict, err := f.resolver().Check(context.Background(), haircut(), start, nil)

	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, ReasonBlocked, verdict.Reason)
}

func TestResolver_Check_Capacity(t *testing.T) {
	f := newFixture()
	start := resolverNow.Add(24 * time.Hour)

	counted := func(id int64, status domain.AppointmentStatus) *domain.Appointment {
		return &domain.Appointment{ID: id, StartAt: start, EndAt: start.Add(time.Hour), Status: status}
	}

	// Две активные записи из трех возможных, слот еще доступен
	f.appts.appts = []*domain.Appointment{
		counted(1, domain.StatusPending),
		counted(2, domain.StatusConfirmed),
	}
	verdict, err := f.resolver().Check(context.Background(), haircut(), start, nil)
	require.NoError(t, err)
	assert.True(t, verdict.Available)

	// Третья заполняет окно
	f.appts.appts = append(f.appts.appts, counted(3, domain.StatusInProgress))
	verdict, err = f.resolver().Check(context.Background(), haircut(), start, nil)
	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, fmt.Sprintf(ReasonFullFmt, 3), verdict.Reason)

	// Отмененные записи не считаются
	f.appts.appts[2].Status = domain.StatusCancelled
	verdict, err = f.resolver().Check(context.Background(), haircut(), start, nil)
	require.NoError(t, err)
	assert.True(t, verdict.Available)
}

func TestResolver_Check_ExcludeID(t *testing.T) {
	f := newFixture()
	f.settings.settings.MaxConcurrent = 1
	start := resolverNow.Add(24 * time.Hour)

	f.appts.appts = []*domain.Appointment{{
		ID: 5, StartAt: start, EndAt: start.Add(time.Hour), Status: domain.StatusConfirmed,
	}}

	// Без исключения окно занято собственной записью
	verdict, err := f.resolver().Check(context.Background(), haircut(), start, nil)
	require.NoError(t, err)
	assert.False(t, verdict.Available)

	// Перепроверка своей записи не считает её саму
	excludeID := int64(5)
	verdict, err = f.resolver().Check(context.Background(), haircut(), start, &excludeID)
	require.NoError(t, err)
	assert.True(t, verdict.Available)
}

func TestResolver_Check_CapacityOverride(t *testing.T) {
	f := newFixture()
	start := time.Date(2026, 9, 16, 10, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

	f.overrides.overrides = []*domain.SlotCapacityOverride{{
		Date:      date,
		TimeStart: "10:00",
		TimeEnd:   "11:00",
		MaxSlots:  1,
		Reason:    "stylist out",
	}}
	f.appts.appts = []*domain.Appointment{{
		ID: 1, StartAt: start, EndAt: start.Add(time.Hour), Status: domain.StatusPending,
	}}

	// Переопределение снижает вместимость окна до 1
	verdict, err := f.resolver().Check(context.Background(), haircut(), start, nil)
	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, fmt.Sprintf(ReasonFullFmt, 1), verdict.Reason)

	// Соседнее окно живет по глобальной вместимости
	other := start.Add(2 * time.Hour)
	verdict, err = f.resolver().Check(context.Background(), haircut(), other, nil)
	require.NoError(t, err)
	assert.True(t, verdict.Available)
}

func TestResolver_Check_Inventory(t *testing.T) {
	f := newFixture()
	start := resolverNow.Add(24 * time.Hour)

	service := haircut()
	service.Requirements = []domain.InventoryRequirement{
		{ItemID: 10, ItemName: "Shampoo", QtyPerService: decimal.RequireFromString("2")},
	}

	f.inventory.items[10] = &domain.Item{ID: 10, Name: "Shampoo", Stock: decimal.RequireFromString("1.5")}

	verdict, err := f.resolver().Check(context.Background(), haircut(), start, nil)
	require.NoError(t, err)
	assert.True(t, verdict.Available, "service without requirements ignores inventory")

	verdict, err = f.resolver().Check(context.Background(), service, start, nil)
	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, fmt.Sprintf(ReasonInventoryFmt, "Shampoo"), verdict.Reason)

	f.inventory.items[10].Stock = decimal.RequireFromString("2")
	verdict, err = f.resolver().Check(context.Background(), service, start, nil)
	require.NoError(t, err)
	assert.True(t, verdict.Available, "exact stock is enough for one booking")
}

func TestResolver_Check_FirstFailureWins(t *testing.T) {
	// Слот одновременно в прошлом и в блэкауте: сообщается первая проверка
	f := newFixture()
	past := resolverNow.Add(-time.Hour)
	f.blackouts.ranges = []*domain.BlackoutRange{{
		StartAt: past.Add(-time.Hour),
		EndAt:   past.Add(2 * time.Hour),
		Reason:  "Holiday",
	}}

	verdict, err := f.resolver().Check(context.Background(), haircut(), past, nil)

	require.NoError(t, err)
	assert.Equal(t, ReasonPastTime, verdict.Reason)
}

func TestResolver_EffectiveCapacity(t *testing.T) {
	f := newFixture()
	date := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 16, 10, 0, 0, 0, time.UTC)

	capacity, err := f.resolver().EffectiveCapacity(context.Background(), start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, capacity)

	f.overrides.overrides = []*domain.SlotCapacityOverride{{
		Date: date, TimeStart: "10:00", TimeEnd: "11:00", MaxSlots: 5,
	}}

	capacity, err = f.resolver().EffectiveCapacity(context.Background(), start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 5, capacity)

	// Переопределение действует только на точное окно
	capacity, err = f.resolver().EffectiveCapacity(context.Background(), start.Add(30*time.Minute), start.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, capacity)
}
