package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	blackoutRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/blackout"
	overrideRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/capacityoverride"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type fakeSettingsRepo struct {
	settings *domain.ScheduleSettings
	initErr  error
}

func (f *fakeSettingsRepo) GetOrInit(_ context.Context) (*domain.ScheduleSettings, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	if f.settings == nil {
		f.settings = &domain.ScheduleSettings{
			MaxConcurrent:     domain.DefaultMaxConcurrent,
			BookingWindowDays: domain.DefaultBookingWindowDays,
		}
	}
	return f.settings, nil
}

func (f *fakeSettingsRepo) Update(_ context.Context, s *domain.ScheduleSettings) (*domain.ScheduleSettings, error) {
	f.settings = s
	f.settings.UpdatedAt = time.Now()
	return f.settings, nil
}

type fakeBlackoutRepo struct {
	ranges map[int64]*domain.BlackoutRange
	nextID int64
}

func (f *fakeBlackoutRepo) Create(_ context.Context, b *domain.BlackoutRange) (*domain.BlackoutRange, error) {
	f.nextID++
	b.ID = f.nextID
	if f.ranges == nil {
		f.ranges = make(map[int64]*domain.BlackoutRange)
	}
	f.ranges[b.ID] = b
	return b, nil
}

func (f *fakeBlackoutRepo) List(_ context.Context) ([]*domain.BlackoutRange, error) {
	out := make([]*domain.BlackoutRange, 0, len(f.ranges))
	for _, b := range f.ranges {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBlackoutRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.ranges[id]; !ok {
		return blackoutRepo.ErrBlackoutNotFound
	}
	delete(f.ranges, id)
	return nil
}

type fakeOverrideRepo struct {
	overrides map[int64]*domain.SlotCapacityOverride
	nextID    int64
}

func (f *fakeOverrideRepo) Create(_ context.Context, o *domain.SlotCapacityOverride) (*domain.SlotCapacityOverride, error) {
	for _, existing := range f.overrides {
		if existing.Date.Equal(o.Date) && existing.TimeStart == o.TimeStart && existing.TimeEnd == o.TimeEnd {
			return nil, overrideRepo.ErrDuplicateWindow
		}
	}
	f.nextID++
	o.ID = f.nextID
	if f.overrides == nil {
		f.overrides = make(map[int64]*domain.SlotCapacityOverride)
	}
	f.overrides[o.ID] = o
	return o, nil
}

func (f *fakeOverrideRepo) ListByDate(_ context.Context, date time.Time) ([]*domain.SlotCapacityOverride, error) {
	out := make([]*domain.SlotCapacityOverride, 0)
	for _, o := range f.overrides {
		if o.Date.Equal(date) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOverrideRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.overrides[id]; !ok {
		return overrideRepo.ErrOverrideNotFound
	}
	delete(f.overrides, id)
	return nil
}

type mutedLogger struct{}

func (mutedLogger) Info(string, ...interface{})  {}
func (mutedLogger) Warn(string, ...interface{})  {}
func (mutedLogger) Error(string, ...interface{}) {}

var (
	admin    = domain.Actor{ID: 1, Role: domain.RoleAdmin}
	staff    = domain.Actor{ID: 2, Role: domain.RoleStaff}
	customer = domain.Actor{ID: 3, Role: domain.RoleCustomer}
)

func newTestService() (*Service, *fakeSettingsRepo, *fakeBlackoutRepo, *fakeOverrideRepo) {
	settings := &fakeSettingsRepo{}
	blackouts := &fakeBlackoutRepo{}
	overrides := &fakeOverrideRepo{}
	return NewService(settings, blackouts, overrides, mutedLogger{}), settings, blackouts, overrides
}

func TestService_GetSettings(t *testing.T) {
	svc, _, _, _ := newTestService()

	resp, err := svc.GetSettings(context.Background(), staff)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxConcurrent, resp.MaxConcurrent)
	assert.Equal(t, domain.DefaultBookingWindowDays, resp.BookingWindowDays)

	_, err = svc.GetSettings(context.Background(), customer)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_UpdateSettings(t *testing.T) {
	svc, repo, _, _ := newTestService()

	resp, err := svc.UpdateSettings(context.Background(), &models.UpdateSettingsRequest{
		Actor:                                admin,
		MaxConcurrent:                        5,
		BookingWindowDays:                    60,
		PreventCompletionOnInsufficientStock: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.MaxConcurrent)
	assert.Equal(t, 60, resp.BookingWindowDays)
	assert.True(t, resp.PreventCompletionOnInsufficientStock)
	assert.Equal(t, 5, repo.settings.MaxConcurrent)
}

func TestService_UpdateSettings_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()

	tests := []struct {
		name string
		req  *models.UpdateSettingsRequest
	}{
		{"zero capacity", &models.UpdateSettingsRequest{Actor: admin, MaxConcurrent: 0, BookingWindowDays: 30}},
		{"negative capacity", &models.UpdateSettingsRequest{Actor: admin, MaxConcurrent: -1, BookingWindowDays: 30}},
		{"zero window", &models.UpdateSettingsRequest{Actor: admin, MaxConcurrent: 3, BookingWindowDays: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateSettings(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_UpdateSettings_AccessDenied(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.UpdateSettings(context.Background(), &models.UpdateSettingsRequest{
		Actor:             customer,
		MaxConcurrent:     5,
		BookingWindowDays: 60,
	})
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Blackouts(t *testing.T) {
	svc, _, repo, _ := newTestService()

	created, err := svc.CreateBlackout(context.Background(), &models.CreateBlackoutRequest{
		Actor:   staff,
		StartAt: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC),
		Reason:  "New Year",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Year", created.Reason)

	list, err := svc.ListBlackouts(context.Background(), staff)
	require.NoError(t, err)
	require.Len(t, list.Blackouts, 1)

	require.NoError(t, svc.DeleteBlackout(context.Background(), created.ID, staff))
	assert.Empty(t, repo.ranges)

	err = svc.DeleteBlackout(context.Background(), created.ID, staff)
	require.ErrorIs(t, err, ErrBlackoutNotFound)
}

func TestService_CreateBlackout_InvalidRange(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateBlackout(context.Background(), &models.CreateBlackoutRequest{
		Actor:   staff,
		StartAt: time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Reason:  "inverted",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Overrides(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := &models.CreateOverrideRequest{
		Actor:     admin,
		Date:      "2026-09-20",
		TimeStart: "10:00",
		TimeEnd:   "11:00",
		MaxSlots:  1,
		Reason:    "short staffed",
	}

	created, err := svc.CreateOverride(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-20", created.Date)
	assert.Equal(t, "10:00", created.TimeStart)
	assert.Equal(t, 1, created.MaxSlots)

	// Повторное создание на то же окно отклоняется
	_, err = svc.CreateOverride(context.Background(), req)
	require.ErrorIs(t, err, ErrDuplicateWindow)

	list, err := svc.ListOverrides(context.Background(), time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC), admin)
	require.NoError(t, err)
	require.Len(t, list.Overrides, 1)

	other, err := svc.ListOverrides(context.Background(), time.Date(2026, 9, 21, 0, 0, 0, 0, time.UTC), admin)
	require.NoError(t, err)
	assert.Empty(t, other.Overrides)

	require.NoError(t, svc.DeleteOverride(context.Background(), created.ID, admin))
	err = svc.DeleteOverride(context.Background(), created.ID, admin)
	require.ErrorIs(t, err, ErrOverrideNotFound)
}

func TestService_CreateOverride_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()

	tests := []struct {
		name string
		req  *models.CreateOverrideRequest
	}{
		{"bad date", &models.CreateOverrideRequest{Actor: admin, Date: "20-09-2026", TimeStart: "10:00", TimeEnd: "11:00", MaxSlots: 1}},
		{"bad time", &models.CreateOverrideRequest{Actor: admin, Date: "2026-09-20", TimeStart: "25:00", TimeEnd: "11:00", MaxSlots: 1}},
		{"inverted window", &models.CreateOverrideRequest{Actor: admin, Date: "2026-09-20", TimeStart: "11:00", TimeEnd: "10:00", MaxSlots: 1}},
		{"zero slots", &models.CreateOverrideRequest{Actor: admin, Date: "2026-09-20", TimeStart: "10:00", TimeEnd: "11:00", MaxSlots: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOverride(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Overrides_AccessDenied(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateOverride(context.Background(), &models.CreateOverrideRequest{Actor: customer})
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.ListOverrides(context.Background(), time.Now(), customer)
	require.ErrorIs(t, err, ErrAccessDenied)

	err = svc.DeleteOverride(context.Background(), 1, customer)
	require.ErrorIs(t, err, ErrAccessDenied)
}
