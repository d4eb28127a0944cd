package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type contextKey string

const actorContextKey contextKey = "actor"

// Заголовки аутентификации, проставляемые API-шлюзом
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает аутентифицированного пользователя из заголовков шлюза
// и кладет его в контекст запроса
// Запросы без валидных заголовков отклоняются с 401
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDStr := r.Header.Get(HeaderUserID)
			roleStr := r.Header.Get(HeaderUserRole)

			userID, err := strconv.ParseInt(userIDStr, 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("Auth: missing or invalid %s header: %q", HeaderUserID, userIDStr)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			role := domain.Role(roleStr)
			switch role {
			case domain.RoleCustomer, domain.RoleStaff, domain.RoleAdmin:
			default:
				logger.Warn("Auth: invalid %s header: %q", HeaderUserRole, roleStr)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			actor := domain.Actor{ID: userID, Role: role}
			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext возвращает актора, положенного middleware Auth
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(domain.Actor)
	return actor, ok
}
