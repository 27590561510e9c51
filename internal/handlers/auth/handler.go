package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"resort/config"
	"resort/infras/jwt"
	"resort/infras/otel"
	"resort/internal/domains/auth/model/dto"
	"resort/internal/domains/auth/service"
	visitorDto "resort/internal/domains/visitor/model/dto"
	visitorService "resort/internal/domains/visitor/service"
	"resort/shared"
	"resort/shared/constant"
	"resort/shared/validator"
	"resort/transport/http/response"
)

type Handler struct {
	service  service.Auth
	visitors visitorService.Visitor
	cfg      *config.Config
	otel     otel.Otel
}

func New(service service.Auth, visitors visitorService.Visitor, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		visitors: visitors,
		cfg:      cfg,
		otel:     otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/visitor/register", handler.Register)
		r.Post("/visitor/login", handler.VisitorLogin)
		r.Post("/visitor/forgot-password", handler.ForgotPassword)
		r.Post("/visitor/reset-password", handler.ResetPassword)
		r.Post("/admin/login", handler.AdminLogin)
		r.Post("/logout", handler.Logout)
		r.Post("/change-password", handler.ChangePassword)
	})
}

// Register creates a new visitor account.
// @Summary Register a visitor account
// @Description Create a new visitor account. The password must pass the platform policy.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body visitorDto.RegisterVisitorRequest true "Registration Request"
// @Success 201 {object} response.Message "Account registered successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/visitor/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Register")
	defer scope.End()

	req := visitorDto.RegisterVisitorRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.visitors.Register(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register visitor")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Visitor account registered")

	response.WithMessage(w, http.StatusCreated, "Account registered successfully")
}

// VisitorLogin authenticates a visitor account.
// @Summary Visitor login
// @Description Authenticate a visitor. On success the session token is set as an HTTP-only cookie and echoed in the body with the profile.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.VisitorLoginResponse] "Session and profile"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/visitor/login [post]
func (handler *Handler) VisitorLogin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VisitorLogin")
	defer scope.End()

	req := dto.LoginRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.VisitorLogin(ctx, req, shared.ClientIP(r), r.UserAgent())
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("visitor login failed")

		response.WithError(w, err)

		return
	}

	handler.setSessionCookie(w, constant.SessionCookieVisitor, res.Token, int(res.ExpiresIn))
	scope.AddEvent("Visitor logged in")

	response.WithJSON(w, http.StatusOK, res)
}

// AdminLogin authenticates a system user.
// @Summary Admin login
// @Description Authenticate an admin. On success the session token is set as an HTTP-only cookie and echoed in the body with the profile.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.AdminLoginResponse] "Session and profile"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/admin/login [post]
func (handler *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AdminLogin")
	defer scope.End()

	req := dto.LoginRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.AdminLogin(ctx, req, shared.ClientIP(r), r.UserAgent())
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("admin login failed")

		response.WithError(w, err)

		return
	}

	handler.setSessionCookie(w, constant.SessionCookieAdmin, res.Token, int(res.ExpiresIn))
	scope.AddEvent("Admin logged in")

	response.WithJSON(w, http.StatusOK, res)
}

// Logout denylists the current session and clears the session cookies.
// @Summary Logout
// @Description End the current session. Always succeeds, even when the token is already invalid.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Message "Logged out"
// @Failure 500 {object} response.Error
// @Router /v1/auth/logout [post]
// @Security BearerAuth
func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Logout")
	defer scope.End()

	token := sessionToken(r)

	if err := handler.service.Logout(ctx, token); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to logout")

		response.WithError(w, err)

		return
	}

	handler.setSessionCookie(w, constant.SessionCookieVisitor, "", -1)
	handler.setSessionCookie(w, constant.SessionCookieAdmin, "", -1)
	scope.AddEvent("Session ended")

	response.WithMessage(w, http.StatusOK, "Logged out")
}

// ChangePassword replaces the authenticated principal's password.
// @Summary Change password
// @Description Replace the current password. The new password must pass the platform policy.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Message "Password changed successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/change-password [post]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangePassword")
	defer scope.End()

	req := dto.ChangePasswordRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.ChangePassword(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to change password")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Password changed")

	response.WithMessage(w, http.StatusOK, "Password changed successfully")
}

// ForgotPassword mails a reset token to a visitor account.
// @Summary Request a password reset
// @Description Send a reset token to the given email if an account exists. The response does not reveal whether it does.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body visitorDto.ForgotPasswordRequest true "Forgot Password Request"
// @Success 200 {object} response.Message "Reset email sent if the account exists"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/auth/visitor/forgot-password [post]
func (handler *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ForgotPassword")
	defer scope.End()

	req := visitorDto.ForgotPasswordRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.visitors.ForgotPassword(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to process forgot password request")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Reset email sent if the account exists")
}

// ResetPassword consumes a reset token and sets a new password.
// @Summary Reset password
// @Description Set a new password using a reset token from the reset email.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body visitorDto.ResetPasswordRequest true "Reset Password Request"
// @Success 200 {object} response.Message "Password reset successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/visitor/reset-password [post]
func (handler *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResetPassword")
	defer scope.End()

	req := visitorDto.ResetPasswordRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.visitors.ResetPassword(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reset password")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Password reset")

	response.WithMessage(w, http.StatusOK, "Password reset successfully")
}

func (handler *Handler) setSessionCookie(w http.ResponseWriter, name, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   handler.cfg.Session.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// sessionToken prefers the Authorization header and falls back to either
// session cookie.
func sessionToken(r *http.Request) string {
	if token, err := jwt.ExtractTokenFromHeader(r.Header.Get(constant.RequestHeaderAuthorization)); err == nil {
		return token
	}

	for _, name := range []string{constant.SessionCookieAdmin, constant.SessionCookieVisitor} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}

	return ""
}
