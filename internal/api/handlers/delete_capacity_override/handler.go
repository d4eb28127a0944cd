package delete_capacity_override

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidOverrideID = "некорректный ID переопределения"
	msgNotFound          = "переопределение не найдено"
	msgForbidden         = "доступ запрещен"
	msgUnauthorized      = "пользователь не аутентифицирован"
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

// Handle DELETE /api/v1/admin/capacity-overrides/{overrideId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	overrideID, err := strconv.ParseInt(mux.Vars(r)["overrideId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /admin/capacity-overrides/{id} - Invalid override ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOverrideID)
		return
	}

	if err := h.service.DeleteOverride(r.Context(), overrideID, actor); err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /admin/capacity-overrides/{id} - Access denied: override_id=%d, actor_id=%d",
				overrideID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrOverrideNotFound):
			h.logger.Warn("DELETE /admin/capacity-overrides/{id} - Not found: override_id=%d", overrideID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /admin/capacity-overrides/{id} - Failed to delete override: override_id=%d, error=%v",
				overrideID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/capacity-overrides/{id} - Override deleted: override_id=%d, actor_id=%d",
		overrideID, actor.ID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
