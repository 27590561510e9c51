package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"resort/infras/jwt"
	"resort/infras/otel"
	"resort/permissions"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	"resort/shared/failure"
	"resort/transport/http/response"
)

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cache      cache.RedisCache
}

// NewAuthRoleMiddleware creates a new middleware instance
func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, redisCache cache.RedisCache) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cache:      redisCache,
	}
}

// Auth validates the session token, rejects revoked sessions, and stores the
// authenticated principal on the request context. The token is read from the
// Authorization header first, then from the admin or visitor session cookie.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		rctx := chi.RouteContext(ctx)
		method := request.Method
		path := rctx.Routes.Find(chi.NewRouteContext(), method, request.URL.Path)

		if m.permission != nil {
			permission := m.permission.FindPermissions(path, method)
			if permission.Skip {
				scope.End()
				next.ServeHTTP(writer, request)

				return
			}
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     method,
		})

		tokenString, err := m.sessionToken(request)
		if err != nil {
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Session has expired"
			case errors.Is(err, jwt.ErrInvalidToken):
				message = "Invalid session token"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid session claims"
			default:
				message = "Session validation failed"
			}

			err := failure.Unauthorized(message)
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		if claims.PrincipalID == "" || claims.Email == "" {
			err := failure.Unauthorized("Invalid session claims")
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		if m.isRevoked(ctx, claims.TokenID) {
			err := failure.Unauthorized("Session has been logged out")
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyPrincipalID, claims.PrincipalID)
		ctx = context.WithValue(ctx, constant.ContextKeyPrincipalEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyPrincipalRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyPrincipalKind, string(claims.Kind))
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC checks the principal's role against the embedded route permissions.
// Requires prior authentication via Auth middleware.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if m.permission == nil {
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		if m.permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		rctx := chi.RouteContext(request.Context())
		path := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
		permission := m.permission.FindPermissions(path, request.Method)

		if permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		principalRole, _ := ctx.Value(constant.ContextKeyPrincipalRole).(string)

		if len(permission.Permissions) > 0 {
			if !slices.Contains(permission.Permissions, principalRole) {
				err := failure.ForbiddenError
				scope.TraceError(err)
				scope.SetAttributes(map[string]any{
					"principal_role": principalRole,
					"allowed_roles":  permission.Permissions,
					"reason":         "role_not_allowed",
				})
				scope.End()
				response.WithError(writer, err)

				return
			}
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// sessionToken extracts the session token from the Authorization header or,
// for browser clients, from the admin or visitor session cookie.
func (m *authRoleImpl) sessionToken(request *http.Request) (string, error) {
	if authHeader := request.Header.Get(constant.RequestHeaderAuthorization); authHeader != "" {
		tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return "", failure.Unauthorized("Invalid authorization header format") //nolint:wrapcheck
		}

		return tokenString, nil
	}

	for _, name := range []string{constant.SessionCookieAdmin, constant.SessionCookieVisitor} {
		if cookie, err := request.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
	}

	return "", failure.Unauthorized("Missing session token") //nolint:wrapcheck
}

// isRevoked reports whether the token id is on the logout denylist. A cache
// outage does not revoke live sessions.
func (m *authRoleImpl) isRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return false
	}

	var principalID string

	err := m.cache.Get(ctx, shared.BuildCacheKey(constant.CacheKeyDenylist, tokenID), &principalID)

	return err == nil
}
