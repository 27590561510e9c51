package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"resort/config"
	"resort/infras/jwt"
	"resort/infras/otel"
	activityModel "resort/internal/domains/activity/model"
	activityService "resort/internal/domains/activity/service"
	adminModel "resort/internal/domains/admin/model"
	adminRepo "resort/internal/domains/admin/repository"
	"resort/internal/domains/auth/model/dto"
	visitorModel "resort/internal/domains/visitor/model"
	visitorRepo "resort/internal/domains/visitor/repository"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
	"resort/shared/password"
	"resort/shared/timezone"
)

type Auth interface {
	AdminLogin(ctx context.Context, req dto.LoginRequest, ip, device string) (dto.AdminLoginResponse, error)
	VisitorLogin(ctx context.Context, req dto.LoginRequest, ip, device string) (dto.VisitorLoginResponse, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
}

type serviceImpl struct {
	admins     adminRepo.Admin
	visitors   visitorRepo.Visitor
	activity   activityService.Activity
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(admins adminRepo.Admin, visitors visitorRepo.Visitor, activity activityService.Activity, cfg *config.Config, redisCache cache.RedisCache, ot otel.Otel, jwtService jwt.JWT) Auth {
	return &serviceImpl{
		admins:     admins,
		visitors:   visitors,
		activity:   activity,
		cfg:        cfg,
		cache:      redisCache,
		otel:       ot,
		jwtService: jwtService,
	}
}

func (s *serviceImpl) AdminLogin(ctx context.Context, req dto.LoginRequest, ip, device string) (res dto.AdminLoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.AdminLogin")
	defer scope.End()
	defer scope.TraceIfError(err)

	admin, err := s.admins.Get(ctx, emailFilter(adminModel.FieldEmail, req.Email, adminModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get admin by email")

		return res, fmt.Errorf("failed to get admin by email: %w", err)
	}

	if admin.ID == constant.Empty {
		s.recordAttempt(ctx, req.Email, activityModel.SourceAdmin, ip, device, activityModel.OutcomeFailure)

		return res, failure.Unauthorized("invalid email or password") //nolint:wrapcheck
	}

	if err := password.Verify(req.Password, admin.Password); err != nil {
		s.recordAttempt(ctx, req.Email, activityModel.SourceAdmin, ip, device, activityModel.OutcomeFailure)

		return res, failure.Unauthorized("invalid email or password") //nolint:wrapcheck
	}

	session, err := s.jwtService.Generate(admin.ID, admin.Email, admin.Role, jwt.KindAdmin)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session token")

		return res, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.recordAttempt(ctx, req.Email, activityModel.SourceAdmin, ip, device, activityModel.OutcomeSuccess)
	s.touchLastLogin(ctx, s.admins.Update, adminModel.FieldLastLogin, admin.ID, adminModel.FieldID, adminModel.TableName)

	res.FromSession(session, admin)

	return res, nil
}

func (s *serviceImpl) VisitorLogin(ctx context.Context, req dto.LoginRequest, ip, device string) (res dto.VisitorLoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.VisitorLogin")
	defer scope.End()
	defer scope.TraceIfError(err)

	visitor, err := s.visitors.Get(ctx, emailFilter(visitorModel.FieldEmail, req.Email, visitorModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get visitor by email")

		return res, fmt.Errorf("failed to get visitor by email: %w", err)
	}

	if visitor.ID == constant.Empty {
		s.recordAttempt(ctx, req.Email, activityModel.SourceVisitor, ip, device, activityModel.OutcomeFailure)

		return res, failure.Unauthorized("invalid email or password") //nolint:wrapcheck
	}

	if err := password.Verify(req.Password, visitor.Password); err != nil {
		s.recordAttempt(ctx, req.Email, activityModel.SourceVisitor, ip, device, activityModel.OutcomeFailure)

		return res, failure.Unauthorized("invalid email or password") //nolint:wrapcheck
	}

	if !visitor.IsActive {
		s.recordAttempt(ctx, req.Email, activityModel.SourceVisitor, ip, device, activityModel.OutcomeFailure)

		return res, failure.Unauthorized("account is deactivated") //nolint:wrapcheck
	}

	session, err := s.jwtService.Generate(visitor.ID, visitor.Email, constant.RoleVisitor, jwt.KindVisitor)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session token")

		return res, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.recordAttempt(ctx, req.Email, activityModel.SourceVisitor, ip, device, activityModel.OutcomeSuccess)
	s.touchLastLogin(ctx, s.visitors.Update, visitorModel.FieldLastLogin, visitor.ID, visitorModel.FieldID, visitorModel.TableName)

	res.FromSession(session, visitor)

	return res, nil
}

// Logout is best effort. The session is stateless, so all logout can do is
// denylist the token id until its natural expiry. An invalid token or an
// unreachable denylist still yields success: the client is dropping the
// cookie either way.
func (s *serviceImpl) Logout(ctx context.Context, token string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Logout")
	defer scope.End()

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		log.Info().Msg("logout with invalid or expired token")

		return nil
	}

	remaining := int(claims.ExpiresAt.Sub(timezone.Now()).Seconds())
	if remaining <= 0 {
		return nil
	}

	cacheKey := shared.BuildCacheKey(constant.CacheKeyDenylist, claims.TokenID)
	if err := s.cache.Save(ctx, cacheKey, claims.PrincipalID, remaining); err != nil {
		log.Warn().Err(err).Msg("failed to denylist session token")
	}

	return nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	principalID, _ := ctx.Value(constant.ContextKeyPrincipalID).(string)
	kind, _ := ctx.Value(constant.ContextKeyPrincipalKind).(string)

	if principalID == constant.Empty {
		return failure.Unauthorized("not authenticated") //nolint:wrapcheck
	}

	if err = password.CheckPolicy(req.NewPassword); err != nil {
		return err
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	switch kind {
	case constant.PrincipalKindAdmin:
		admin, err := s.admins.Get(ctx, shared.FilterByID(principalID, adminModel.FieldID, adminModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get admin: %w", err)
		}

		if err := password.Verify(req.OldPassword, admin.Password); err != nil {
			return failure.Unauthorized("old password is incorrect") //nolint:wrapcheck
		}

		updated := map[string]any{
			adminModel.FieldPassword: hashed,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: principalID,
		}

		if err := s.admins.Update(ctx, updated, shared.FilterByID(principalID, adminModel.FieldID, adminModel.TableName)); err != nil {
			return fmt.Errorf("failed to change password: %w", err)
		}
	case constant.PrincipalKindVisitor:
		visitor, err := s.visitors.Get(ctx, shared.FilterByID(principalID, visitorModel.FieldID, visitorModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get visitor: %w", err)
		}

		if err := password.Verify(req.OldPassword, visitor.Password); err != nil {
			return failure.Unauthorized("old password is incorrect") //nolint:wrapcheck
		}

		updated := map[string]any{
			visitorModel.FieldPassword: hashed,
			constant.FieldModifiedAt:   timezone.Now(),
			constant.FieldModifiedBy:   principalID,
		}

		if err := s.visitors.Update(ctx, updated, shared.FilterByID(principalID, visitorModel.FieldID, visitorModel.TableName)); err != nil {
			return fmt.Errorf("failed to change password: %w", err)
		}
	default:
		return failure.Unauthorized("not authenticated") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) recordAttempt(ctx context.Context, email, source, ip, device, outcome string) {
	s.activity.Record(ctx, email, source, ip, device, outcome)
}

type updateFunc func(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error

func (s *serviceImpl) touchLastLogin(ctx context.Context, update updateFunc, lastLoginField, id, fieldID, table string) {
	go func() {
		c := context.WithoutCancel(ctx)
		now := timezone.Format(timezone.Now(), constant.DateFormat)

		if err := update(c, map[string]any{lastLoginField: now}, shared.FilterByID(id, fieldID, table)); err != nil {
			log.Warn().Err(err).Msg("failed to update last login")
		}
	}()
}

func emailFilter(field, value, table string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: field, Value: value, Operator: gDto.FilterOperatorEq, Table: table},
		},
	}
}
