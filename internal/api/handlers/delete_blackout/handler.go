package delete_blackout

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
	msgInvalidBlackoutID = "некорректный ID блокировки"
	msgNotFound          = "блокировка не найдена"
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

// Handle DELETE /api/v1/admin/blackouts/{blackoutId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	blackoutID, err := strconv.ParseInt(mux.Vars(r)["blackoutId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /admin/blackouts/{id} - Invalid blackout ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlackoutID)
		return
	}

	if err := h.service.DeleteBlackout(r.Context(), blackoutID, actor); err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /admin/blackouts/{id} - Access denied: blackout_id=%d, actor_id=%d",
				blackoutID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrBlackoutNotFound):
			h.logger.Warn("DELETE /admin/blackouts/{id} - Not found: blackout_id=%d", blackoutID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /admin/blackouts/{id} - Failed to delete blackout: blackout_id=%d, error=%v",
				blackoutID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/blackouts/{id} - Blackout deleted: blackout_id=%d, actor_id=%d",
		blackoutID, actor.ID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
