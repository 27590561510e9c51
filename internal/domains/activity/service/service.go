package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"resort/config"
	"resort/infras/otel"
	"resort/internal/domains/activity/model"
	"resort/internal/domains/activity/model/dto"
	"resort/internal/domains/activity/repository"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/timezone"
)

type Activity interface {
	Record(ctx context.Context, email, source, ip, device, outcome string)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetActivitiesResponse, error)
}

type serviceImpl struct {
	repo repository.Activity
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Activity, cfg *config.Config, ot otel.Otel) Activity {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: ot,
	}
}

// Record appends one audit row. It never returns an error: a login must not
// fail because the audit trail is temporarily unwritable, so failures are
// logged and dropped.
func (s *serviceImpl) Record(ctx context.Context, email, source, ip, device, outcome string) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Record")
	defer scope.End()

	activity := model.LoginActivity{
		ID:        uuid.NewString(),
		Email:     email,
		Source:    source,
		IP:        ip,
		Device:    device,
		Outcome:   outcome,
		Timestamp: timezone.Now(),
	}

	if err := s.repo.Insert(ctx, activity); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("email", email).Msg("failed to record login activity")
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetActivitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	// The audit table keeps its own timestamp instead of the shared
	// created_at metadata, so the default listing order maps onto it.
	if req.SortBy == "" || req.SortBy == constant.FieldCreatedAt {
		req.SortBy = model.FieldTimestamp
	}

	if req.SortDir == "" {
		req.SortDir = gDto.SortDirDesc
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count login activity")

		return res, fmt.Errorf("failed to count login activity: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get login activity")

		return res, fmt.Errorf("failed to get login activity: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}
