package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	paymentClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Фейки поверх узких интерфейсов сервиса

type fakeApptRepo struct {
	appts         map[int64]*domain.Appointment
	cancelCalls   int
	lastRefund    decimal.Decimal
	lastActorID   int64
	statusUpdates []domain.AppointmentStatus
}

func (f *fakeApptRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.appts[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (f *fakeApptRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range f.appts {
		if a.CustomerID != customerID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeApptRepo) GetWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, a := range f.appts {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.From != nil && a.StartAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !a.StartAt.Before(*filter.To) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeApptRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	appt, ok := f.appts[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	appt.Status = status
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeApptRepo) Cancel(_ context.Context, id int64, actorID int64, reason string, refund decimal.Decimal, cancelledAt time.Time) error {
	appt, ok := f.appts[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	appt.Status = domain.StatusCancelled
	appt.CancelledAt = &cancelledAt
	appt.CancelledBy = &actorID
	appt.CancellationReason = &reason
	appt.RefundAmount = refund
	f.cancelCalls++
	f.lastRefund = refund
	f.lastActorID = actorID
	return nil
}

type fakeSettingsRepo struct {
	settings domain.ScheduleSettings
}

func (f *fakeSettingsRepo) GetOrInit(_ context.Context) (*domain.ScheduleSettings, error) {
	s := f.settings
	return &s, nil
}

type fakeCatalogRepo struct {
	services map[int64]*domain.Service
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, assert.AnError
	}
	return s, nil
}

type fakeInventoryRepo struct {
	items        map[int64]*domain.Item
	deductCalls  int
	failDeductID int64
}

func (f *fakeInventoryRepo) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, assert.AnError
	}
	return item, nil
}

func (f *fakeInventoryRepo) DeductStock(_ context.Context, id int64, qty decimal.Decimal) error {
	if f.failDeductID == id {
		return assert.AnError
	}
	item, ok := f.items[id]
	if !ok {
		return assert.AnError
	}
	item.Stock = item.Stock.Sub(qty)
	f.deductCalls++
	return nil
}

type fakePaymentClient struct {
	paid decimal.Decimal
	err  error
}

func (f *fakePaymentClient) GetPaidAmount(_ context.Context, _ int64) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.paid, nil
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var testNow = time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeApptRepo, inv *fakeInventoryRepo, pay *fakePaymentClient, settings domain.ScheduleSettings, services map[int64]*domain.Service) *Service {
	return NewService(
		repo,
		&fakeSettingsRepo{settings: settings},
		&fakeCatalogRepo{services: services},
		inv,
		pay,
		fakeTxManager{},
		nopLogger{},
	).WithTimeProvider(fixedTime{now: testNow})
}

func defaultSettings() domain.ScheduleSettings {
	return domain.ScheduleSettings{
		MaxConcurrent:                        3,
		BookingWindowDays:                    30,
		PreventCompletionOnInsufficientStock: true,
	}
}

func pendingAppointment(id, customerID int64, startAt time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:           id,
		CustomerID:   customerID,
		ServiceID:    1,
		StartAt:      startAt,
		EndAt:        startAt.Add(time.Hour),
		Status:       domain.StatusPending,
		PaymentState: domain.PaymentPaid,
		ServiceName:  "Haircut",
		ServicePrice: decimal.RequireFromString("100.00"),
	}
}

func TestService_Cancel_RefundTiers(t *testing.T) {
	tests := []struct {
		name       string
		startAt    time.Time
		wantPct    int
		wantRefund string
	}{
		{"more than 48h gives full refund", testNow.Add(72 * time.Hour), 100, "100.00"},
		{"exactly 48h gives half refund", testNow.Add(48 * time.Hour), 50, "50.00"},
		{"between 24h and 48h gives half refund", testNow.Add(30 * time.Hour), 50, "50.00"},
		{"exactly 24h gives no refund", testNow.Add(24 * time.Hour), 0, "0"},
		{"less than 24h gives no refund", testNow.Add(2 * time.Hour), 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{
				1: pendingAppointment(1, 42, tt.startAt),
			}}
			pay := &fakePaymentClient{paid: decimal.RequireFromString("100.00")}
			svc := newTestService(repo, &fakeInventoryRepo{}, pay, defaultSettings(), nil)

			resp, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
				Actor:  domain.Actor{ID: 42, Role: domain.RoleCustomer},
				Reason: "changed my mind",
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantPct, resp.RefundPercentage)
			assert.True(t, resp.RefundAmount.Equal(decimal.RequireFromString(tt.wantRefund)),
				"refund = %s, want %s", resp.RefundAmount, tt.wantRefund)
			assert.Equal(t, domain.StatusCancelled, repo.appts[1].Status)
			assert.Equal(t, int64(42), repo.lastActorID)
		})
	}
}

func TestService_Cancel_NoPaidPayment(t *testing.T) {
	repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{
		1: pendingAppointment(1, 42, testNow.Add(72*time.Hour)),
	}}
	pay := &fakePaymentClient{err: paymentClient.ErrNoPaidPayment}
	svc := newTestService(repo, &fakeInventoryRepo{}, pay, defaultSettings(), nil)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		Actor: domain.Actor{ID: 42, Role: domain.RoleCustomer},
	})

	require.NoError(t, err)
	assert.Equal(t, 100, resp.RefundPercentage)
	assert.True(t, resp.RefundAmount.IsZero(), "nothing paid means nothing to refund")
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	appt := pendingAppointment(1, 42, testNow.Add(72*time.Hour))
	appt.Status = domain.StatusCancelled
	repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{1: appt}}
	pay := &fakePaymentClient{paid: decimal.RequireFromString("100.00")}
	svc := newTestService(repo, &fakeInventoryRepo{}, pay, defaultSettings(), nil)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		Actor: domain.Actor{ID: 42, Role: domain.RoleCustomer},
	})

	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, repo.cancelCalls, "second cancel must not produce a second refund")
}

func TestService_Cancel_AccessDenied(t *testing.T) {
	repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{
		1: pendingAppointment(1, 42, testNow.Add(72*time.Hour)),
	}}
	svc := newTestService(repo, &fakeInventoryRepo{}, &fakePaymentClient{}, defaultSettings(), nil)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		Actor: domain.Actor{ID: 99, Role: domain.RoleCustomer},
	})

	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.cancelCalls)
}

func TestService_Cancel_StaffCanCancelForeign(t *testing.T) {
	repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{
		1: pendingAppointment(1, 42, testNow.Add(72*time.Hour)),
	}}
	pay := &fakePaymentClient{paid: decimal.RequireFromString("100.00")}
	svc := newTestService(repo, &fakeInventoryRepo{}, pay, defaultSettings(), nil)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		Actor:  domain.Actor{ID: 7, Role: domain.RoleStaff},
		Reason: "client called",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), repo.lastActorID)
	assert.Equal(t, 100, resp.RefundPercentage)
}

func inProgressWithService() (*fakeApptRepo, map[int64]*domain.Service) {
	appt := pendingAppointment(1, 42, testNow.Add(time.Hour))
	appt.Status = domain.StatusInProgress

	services := map[int64]*domain.Service{
		1: {
			ID:              1,
			Name:            "Haircut",
			DurationMinutes: 60,
			IsActive:        true,
			Requirements: []domain.InventoryRequirement{
				{ItemID: 10, ItemName: "Shampoo", QtyPerService: decimal.RequireFromString("1.5")},
				{ItemID: 11, ItemName: "Wax", QtyPerService: decimal.RequireFromString("0.5")},
			},
		},
	}

	return &fakeApptRepo{appts: map[int64]*domain.Appointment{1: appt}}, services
}

func TestService_Complete_Success(t *testing.T) {
	repo, services := inProgressWithService()
	inv := &fakeInventoryRepo{items: map[int64]*domain.Item{
		10: {ID: 10, Name: "Shampoo", Stock: decimal.RequireFromString("10")},
		11: {ID: 11, Name: "Wax", Stock: decimal.RequireFromString("5")},
	}}
	svc := newTestService(repo, inv, &fakePaymentClient{}, defaultSettings(), services)

	resp, err := svc.Complete(context.Background(), 1, domain.Actor{ID: 7, Role: domain.RoleStaff})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Equal(t, 2, inv.deductCalls)
	assert.True(t, inv.items[10].Stock.Equal(decimal.RequireFromString("8.5")))
	assert.True(t, inv.items[11].Stock.Equal(decimal.RequireFromString("4.5")))
}

func TestService_Complete_OnlyFromInProgress(t *testing.T) {
	repo, services := inProgressWithService()
	repo.appts[1].Status = domain.StatusConfirmed
	inv := &fakeInventoryRepo{items: map[int64]*domain.Item{}}
	svc := newTestService(repo, inv, &fakePaymentClient{}, defaultSettings(), services)

	_, err := svc.Complete(context.Background(), 1, domain.Actor{ID: 7, Role: domain.RoleStaff})

	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, inv.deductCalls)
	assert.Equal(t, domain.StatusConfirmed, repo.appts[1].Status)
}

func TestService_Complete_InsufficientStockListsAllItems(t *testing.T) {
	repo, services := inProgressWithService()
	inv := &fakeInventoryRepo{items: map[int64]*domain.Item{
		10: {ID: 10, Name: "Shampoo", Stock: decimal.RequireFromString("1")},
		11: {ID: 11, Name: "Wax", Stock: decimal.RequireFromString("0.1")},
	}}
	svc := newTestService(repo, inv, &fakePaymentClient{}, defaultSettings(), services)

	_, err := svc.Complete(context.Background(), 1, domain.Actor{ID: 7, Role: domain.RoleStaff})

	require.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.ElementsMatch(t, []string{"Shampoo", "Wax"}, stockErr.Items)

	// Ничего не списано, статус не изменился
	assert.Zero(t, inv.deductCalls)
	assert.Equal(t, domain.StatusInProgress, repo.appts[1].Status)
}

func TestService_Complete_StockCheckDisabled(t *testing.T) {
	repo, services := inProgressWithService()
	inv := &fakeInventoryRepo{items: map[int64]*domain.Item{
		10: {ID: 10, Name: "Shampoo", Stock: decimal.RequireFromString("10")},
		11: {ID: 11, Name: "Wax", Stock: decimal.RequireFromString("5")},
	}}

	settings := defaultSettings()
	settings.PreventCompletionOnInsufficientStock = false
	svc := newTestService(repo, inv, &fakePaymentClient{}, settings, services)

	_, err := svc.Complete(context.Background(), 1, domain.Actor{ID: 7, Role: domain.RoleStaff})

	require.NoError(t, err)
	assert.Equal(t, 2, inv.deductCalls, "stock is still deducted when the pre-check is disabled")
}

func TestService_Complete_CustomerForbidden(t *testing.T) {
	repo, services := inProgressWithService()
	svc := newTestService(repo, &fakeInventoryRepo{}, &fakePaymentClient{}, defaultSettings(), services)

	_, err := svc.Complete(context.Background(), 1, domain.Actor{ID: 42, Role: domain.RoleCustomer})

	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_UpdateStatus(t *testing.T) {
	t.Run("pending to confirmed", func(t *testing.T) {
		repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{
			1: pendingAppointment(1, 42, testNow.Add(time.Hour)),
		}}
		svc := newTestService(repo, &fakeInventoryRepo{}, &fakePaymentClient{}, defaultSettings(), nil)

		resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Actor:  domain.Actor{ID: 7, Role: domain.RoleStaff},
			Status: "confirmed",
		})

		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	})

	t.Run("completed is routed to Complete", func(t *testing.T) {
		repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{
			1: pendingAppointment(1, 42, testNow.Add(time.Hour)),
		}}
		svc := newTestService(repo, &fakeInventoryRepo{}, &fakePaymentClient{}, defaultSettings(), nil)

		_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Actor:  domain.Actor{ID: 7, Role: domain.RoleStaff},
			Status: "completed",
		})

		require.ErrorIs(t, err, ErrStatusRequiresComplete)
	})

	t.Run("cancelled is routed to Cancel", func(t *testing.T) {
		repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{
			1: pendingAppointment(1, 42, testNow.Add(time.Hour)),
		}}
		svc := newTestService(repo, &fakeInventoryRepo{}, &fakePaymentClient{}, defaultSettings(), nil)

		_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Actor:  domain.Actor{ID: 7, Role: domain.RoleStaff},
			Status: "cancelled",
		})

		require.ErrorIs(t, err, ErrStatusRequiresCancel)
	})

	t.Run("terminal status rejects transitions", func(t *testing.T) {
		appt := pendingAppointment(1, 42, testNow.Add(time.Hour))
		appt.Status = domain.StatusNoShow
		repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{1: appt}}
		svc := newTestService(repo, &fakeInventoryRepo{}, &fakePaymentClient{}, defaultSettings(), nil)

		_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Actor:  domain.Actor{ID: 7, Role: domain.RoleStaff},
			Status: "confirmed",
		})

		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{
			1: pendingAppointment(1, 42, testNow.Add(time.Hour)),
		}}
		svc := newTestService(repo, &fakeInventoryRepo{}, &fakePaymentClient{}, defaultSettings(), nil)

		_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Actor:  domain.Actor{ID: 7, Role: domain.RoleStaff},
			Status: "teleported",
		})

		require.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("customer forbidden", func(t *testing.T) {
		repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{
			1: pendingAppointment(1, 42, testNow.Add(time.Hour)),
		}}
		svc := newTestService(repo, &fakeInventoryRepo{}, &fakePaymentClient{}, defaultSettings(), nil)

		_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Actor:  domain.Actor{ID: 42, Role: domain.RoleCustomer},
			Status: "confirmed",
		})

		require.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_GetByID_Access(t *testing.T) {
	repo := &fakeApptRepo{appts: map[int64]*domain.Appointment{
		1: pendingAppointment(1, 42, testNow.Add(time.Hour)),
	}}
	svc := newTestService(repo, &fakeInventoryRepo{}, &fakePaymentClient{}, defaultSettings(), nil)

	_, err := svc.GetByID(context.Background(), 1, domain.Actor{ID: 42, Role: domain.RoleCustomer})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 1, domain.Actor{ID: 99, Role: domain.RoleCustomer})
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 1, domain.Actor{ID: 99, Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 404, domain.Actor{ID: 42, Role: domain.RoleCustomer})
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}
