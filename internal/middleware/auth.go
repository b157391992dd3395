package middleware

import (
	"context"
	"net/http"
	"strings"

	"zoo_roulette/internal/config"
	"zoo_roulette/pkg/resp"
	"zoo_roulette/pkg/token"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

type Auth struct {
	jwtCfg config.JWTConfig
}

func NewAuth(jwtCfg config.JWTConfig) *Auth {
	return &Auth{jwtCfg: jwtCfg}
}

// Authenticate - требует валидный Bearer токен
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.userIDFromRequest(r)
		if !ok {
			resp.WriteJSONError(w, http.StatusUnauthorized, "access denied")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
	})
}

// AuthenticateOptional - анонимный доступ разрешен, но если токен передан,
// ID пользователя кладется в контекст
func (a *Auth) AuthenticateOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := a.userIDFromRequest(r); ok {
			r = r.WithContext(ContextWithUserID(r.Context(), userID))
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Auth) userIDFromRequest(r *http.Request) (int, bool) {
	authHeader := r.Header.Get("Authorization")
	tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || len(tokenStr) == 0 {
		return 0, false
	}

	claims, err := token.VerifyToken(tokenStr, a.jwtCfg.AccessTokenSecretKey())
	if err != nil {
		return 0, false
	}

	userID, err := token.UserIDFromClaims(claims)
	if err != nil {
		return 0, false
	}

	return userID, true
}

func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}
