package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/otel/mocks"
	activityMocks "resort/internal/domains/activity/mocks"
	"resort/internal/domains/activity/model"
	"resort/internal/domains/activity/service"
	gDto "resort/shared/dto"
)

func TestActivityService_Record(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupMock func(repo *activityMocks.MockActivity)
	}{
		{
			name: "inserts an audit row",
			setupMock: func(repo *activityMocks.MockActivity) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, activity model.LoginActivity) error {
						assert.NotEmpty(t, activity.ID)
						assert.Equal(t, "guest@example.com", activity.Email)
						assert.Equal(t, model.SourceVisitor, activity.Source)
						assert.Equal(t, model.OutcomeSuccess, activity.Outcome)

						return nil
					})
			},
		},
		{
			name: "swallows insert failures",
			setupMock: func(repo *activityMocks.MockActivity) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := activityMocks.NewMockActivity(ctrl)
			tt.setupMock(repo)

			svc := service.New(repo, &config.Config{}, mocks.NewOtel())

			// Record never surfaces errors to the caller.
			svc.Record(context.Background(), "guest@example.com", model.SourceVisitor, "203.0.113.7", "ua", model.OutcomeSuccess)
		})
	}
}

func TestActivityService_GetAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupMock func(repo *activityMocks.MockActivity)
		wantErr   bool
		wantTotal int
	}{
		{
			name: "returns the audit trail with totals",
			setupMock: func(repo *activityMocks.MockActivity) {
				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.LoginActivity{
					{ID: "a-1", Email: "guest@example.com", Outcome: model.OutcomeSuccess},
					{ID: "a-2", Email: "guest@example.com", Outcome: model.OutcomeFailure},
				}, nil)
			},
			wantTotal: 2,
		},
		{
			name: "orders the trail newest first by default",
			setupMock: func(repo *activityMocks.MockActivity) {
				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.LoginActivity, error) {
						assert.Equal(t, model.FieldTimestamp, params.SortBy)
						assert.Equal(t, gDto.SortDirDesc, params.SortDir)

						return []model.LoginActivity{
							{ID: "a-1", Email: "guest@example.com", Outcome: model.OutcomeSuccess},
						}, nil
					})
			},
			wantTotal: 1,
		},
		{
			name: "propagates count errors",
			setupMock: func(repo *activityMocks.MockActivity) {
				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := activityMocks.NewMockActivity(ctrl)
			tt.setupMock(repo)

			svc := service.New(repo, &config.Config{}, mocks.NewOtel())

			res, err := svc.GetAll(context.Background(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalData)
			assert.Len(t, res.Activities, tt.wantTotal)
		})
	}
}
