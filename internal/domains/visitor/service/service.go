package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"resort/config"
	"resort/infras/mailer"
	"resort/infras/otel"
	"resort/internal/domains/visitor/model"
	"resort/internal/domains/visitor/model/dto"
	"resort/internal/domains/visitor/repository"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
	"resort/shared/password"
	"resort/shared/timezone"
)

const (
	cacheGetVisitor    = "visitor:get"
	cacheGetAllVisitor = "visitor:gets"
	cacheCountVisitor  = "visitor:count"
)

type Visitor interface {
	Register(ctx context.Context, req dto.RegisterVisitorRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVisitorsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.VisitorResponse, error)
	Update(ctx context.Context, req dto.UpdateVisitorRequest, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
}

type serviceImpl struct {
	repo     repository.Visitor
	cfg      *config.Config
	cache    cache.RedisCache
	notifier mailer.Notifier
	otel     otel.Otel
}

func New(repo repository.Visitor, cfg *config.Config, redisCache cache.RedisCache, notifier mailer.Notifier, ot otel.Otel) Visitor {
	return &serviceImpl{
		repo:     repo,
		cfg:      cfg,
		cache:    redisCache,
		notifier: notifier,
		otel:     ot,
	}
}

// Register creates a new visitor account. The password policy runs first and
// fails fast on the first broken rule, before any uniqueness check touches
// the database.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterVisitorRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = password.CheckPolicy(req.Password); err != nil {
		return err
	}

	if err = s.checkUnique(ctx, model.FieldEmail, req.Email, constant.Empty, "email already registered"); err != nil {
		return err
	}

	if err = s.checkUnique(ctx, model.FieldPhone, req.Phone, constant.Empty, "phone number already registered"); err != nil {
		return err
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err = s.repo.Insert(ctx, req.ToModel(hashedPassword)); err != nil {
		log.Error().Err(err).Msg("failed to register visitor")

		return fmt.Errorf("failed to register visitor: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllVisitor)
		shared.InvalidateCaches(c, s.cache, cacheCountVisitor)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetVisitorsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllVisitor, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for visitors")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count visitors")

		return res, fmt.Errorf("failed to count visitors: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get visitors")

		return res, fmt.Errorf("failed to get visitors: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save visitors to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountVisitor, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count visitors")

		return res, fmt.Errorf("failed to count visitors: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save visitor count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.VisitorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetVisitor, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for visitor")

		return res, nil
	}

	visitor, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get visitor")

		return res, fmt.Errorf("failed to get visitor: %w", err)
	}

	if visitor.ID == constant.Empty {
		return res, failure.NotFound("visitor account not found") //nolint:wrapcheck
	}

	res.FromModel(visitor)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save visitor to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateVisitorRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateVisitorRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if visitor exists")

		return fmt.Errorf("failed to check if visitor exists: %w", err)
	}

	if !exist {
		return failure.NotFound("visitor account not found") //nolint:wrapcheck
	}

	if req.Phone != constant.Empty {
		if err = s.checkUnique(ctx, model.FieldPhone, req.Phone, id, "phone number already registered"); err != nil {
			return err
		}
	}

	user, _ := ctx.Value(constant.ContextKeyPrincipalID).(string)

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update visitor")

		return fmt.Errorf("failed to update visitor: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// SetActive flips the account's active flag. Deactivation does not touch the
// visitor's bookings; it only blocks new logins.
func (s *serviceImpl) SetActive(ctx context.Context, id string, active bool) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.SetActive")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	visitor, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get visitor")

		return fmt.Errorf("failed to get visitor: %w", err)
	}

	if visitor.ID == constant.Empty {
		return failure.NotFound("visitor account not found") //nolint:wrapcheck
	}

	if visitor.IsActive == active {
		return nil
	}

	user, _ := ctx.Value(constant.ContextKeyPrincipalID).(string)

	updatedFields := map[string]any{
		model.FieldIsActive:      active,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update visitor active flag")

		return fmt.Errorf("failed to update visitor active flag: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if visitor exists")

		return fmt.Errorf("failed to check if visitor exists: %w", err)
	}

	if !exist {
		return failure.NotFound("visitor account not found") //nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete visitor")

		return fmt.Errorf("failed to delete visitor: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// ForgotPassword issues a short-lived reset token and mails it to the
// account's address. An unknown email returns success so the endpoint cannot
// be used to probe which addresses are registered.
func (s *serviceImpl) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.ForgotPassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	visitor, err := s.repo.Get(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldEmail, Value: req.Email, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get visitor by email")

		return fmt.Errorf("failed to get visitor by email: %w", err)
	}

	if visitor.ID == constant.Empty {
		log.Info().Msg("password reset requested for unknown email")

		return nil
	}

	token := uuid.NewString()
	cacheKey := shared.BuildCacheKey(constant.CacheKeyResetToken, token)

	if err = s.cache.Save(ctx, cacheKey, visitor.ID, s.cfg.Session.ResetTokenTTLMin*60); err != nil {
		log.Error().Err(err).Msg("failed to store reset token")

		return fmt.Errorf("failed to store reset token: %w", err)
	}

	subject := "Password reset"
	body := fmt.Sprintf("Dear %s,\n\nUse the token below to reset your password. It expires in %d minutes.\n\n%s",
		visitor.FullName(), s.cfg.Session.ResetTokenTTLMin, token)

	if err = s.notifier.Send(ctx, visitor.Email, subject, body); err != nil {
		log.Error().Err(err).Msg("failed to send password reset email")

		return failure.Unavailable("could not send the password reset email") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".visitor.ResetPassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = password.CheckPolicy(req.Password); err != nil {
		return err
	}

	cacheKey := shared.BuildCacheKey(constant.CacheKeyResetToken, req.Token)

	visitorID := constant.Empty
	if err = s.cache.Get(ctx, cacheKey, &visitorID); err != nil || visitorID == constant.Empty {
		return failure.BadRequestFromString("reset token is invalid or expired") //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	updatedFields := map[string]any{
		model.FieldPassword:      hashedPassword,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: visitorID,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(visitorID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to reset password")

		return fmt.Errorf("failed to reset password: %w", err)
	}

	if err = s.cache.Delete(ctx, cacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to delete used reset token")
	}

	s.invalidate(ctx, visitorID)

	return nil
}

func (s *serviceImpl) checkUnique(ctx context.Context, field, value, excludeID, conflictMsg string) error {
	filters := []any{
		gDto.Filter{Field: field, Value: value, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if excludeID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldID, Value: excludeID, Operator: gDto.FilterOperatorNotEq, Table: model.TableName})
	}

	exists, err := s.repo.Exist(ctx, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters})
	if err != nil {
		log.Error().Err(err).Msg("failed to check visitor uniqueness")

		return fmt.Errorf("failed to check visitor uniqueness: %w", err)
	}

	if exists {
		return failure.Conflict(conflictMsg) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetVisitor, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete visitor from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllVisitor)
		shared.InvalidateCaches(c, s.cache, cacheCountVisitor)
	}()
}
