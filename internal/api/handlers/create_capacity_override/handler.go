package create_capacity_override

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidOverride    = "некорректные параметры переопределения"
	msgDuplicateWindow    = "переопределение для этого окна уже существует"
	msgForbidden          = "доступ запрещен"
	msgUnauthorized       = "пользователь не аутентифицирован"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/capacity-overrides
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req models.CreateOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/capacity-overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Actor = actor

	result, err := h.service.CreateOverride(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /admin/capacity-overrides - Access denied: actor_id=%d", actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrDuplicateWindow):
			h.logger.Warn("POST /admin/capacity-overrides - Duplicate window: date=%s, start=%s, end=%s",
				req.Date, req.TimeStart, req.TimeEnd)
			handlers.RespondConflict(w, msgDuplicateWindow)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /admin/capacity-overrides - Invalid override: %v", err)
			handlers.RespondBadRequest(w, msgInvalidOverride)

		default:
			h.logger.Error("POST /admin/capacity-overrides - Failed to create override: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/capacity-overrides - Override created: override_id=%d, actor_id=%d",
		result.ID, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
