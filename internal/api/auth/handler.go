package auth

import (
	"net/http"
	"time"

	authdto "zoo_roulette/internal/api/dto/auth"
	"zoo_roulette/internal/config"
	"zoo_roulette/internal/converter"
	"zoo_roulette/internal/model"
	"zoo_roulette/internal/service"
	"zoo_roulette/pkg/req"
	"zoo_roulette/pkg/resp"
)

const (
	sessionCookieName = "session_id"
	refreshCookieName = "refresh_token"
)

type Handler struct {
	authService service.AuthService
	jwtCfg      config.JWTConfig
}

func NewHandler(authService service.AuthService, jwtCfg config.JWTConfig) *Handler {
	return &Handler{
		authService: authService,
		jwtCfg:      jwtCfg,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := req.Decode[authdto.RegisterRequest](r.Body)
	if err != nil {
		resp.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Login == "" || body.Password == "" {
		resp.WriteJSONError(w, http.StatusBadRequest, "login and password are required")
		return
	}

	authData, err := h.authService.Register(r.Context(), &model.User{
		Login:    body.Login,
		Password: body.Password,
	})
	if err != nil {
		resp.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.setAuthCookies(w, authData)
	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToAuthResponse(authData))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := req.Decode[authdto.LoginRequest](r.Body)
	if err != nil {
		resp.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	authData, err := h.authService.Login(r.Context(), body.Login, body.Password)
	if err != nil {
		resp.WriteJSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.setAuthCookies(w, authData)
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToAuthResponse(authData))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		resp.WriteJSONError(w, http.StatusUnauthorized, "session not found")
		return
	}

	refreshCookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		resp.WriteJSONError(w, http.StatusUnauthorized, "refresh token not found")
		return
	}

	accessToken, err := h.authService.Refresh(r.Context(), sessionCookie.Value, refreshCookie.Value)
	if err != nil {
		resp.WriteJSONError(w, http.StatusUnauthorized, "failed to refresh token")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, authdto.RefreshResponse{AccessToken: accessToken})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		_ = h.authService.Logout(r.Context(), sessionCookie.Value)
	}

	h.clearAuthCookies(w)
	resp.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Profile(r.Context())
	if err != nil {
		resp.WriteJSONError(w, http.StatusUnauthorized, "access denied")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToUserFromModel(user))
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, authData *model.AuthData) {
	expires := time.Now().Add(h.jwtCfg.RefreshTokenDuration())

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    authData.SessionID,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    authData.RefreshToken,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{sessionCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}
