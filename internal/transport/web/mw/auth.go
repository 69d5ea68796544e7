package mw

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/Hedi-Ayari/book-review-service/internal/domain"
)

const userKey ctxKey = "auth_user"

type AuthDeps struct {
	Tokens domain.TokenManager
}

// RequireRole валидирует Bearer JWT и пускает дальше только перечисленные роли.
// Нет/битый токен — 401, токен валиден, но роль не из списка — 403.
func RequireRole(deps AuthDeps, next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r.Header.Get("Authorization"))
		if raw == "" {
			writeAuthError(w, http.StatusUnauthorized, domain.ErrCodeUnauth, "unauthorized")
			return
		}
		claims, err := deps.Tokens.Parse(r.Context(), raw)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, domain.ErrCodeUnauth, "unauthorized")
			return
		}
		if !slices.Contains(roles, claims.Role) {
			writeAuthError(w, http.StatusForbidden, domain.ErrCodeForbidden, "forbidden")
			return
		}
		u := domain.User{ID: claims.UserID, Username: claims.Username, Role: claims.Role}
		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromCtx(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey).(domain.User)
	return u, ok
}

func extractBearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// mw не может тянуть v1 (цикл), поэтому конверт ошибки пишем сами
func writeAuthError(w http.ResponseWriter, status, code int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"code":` + strconv.Itoa(code) + `,"text":"` + text + `"}}`))
}
