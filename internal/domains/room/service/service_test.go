package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/otel/mocks"
	bookingMocks "resort/internal/domains/booking/mocks"
	roomMocks "resort/internal/domains/room/mocks"
	"resort/internal/domains/room/model"
	"resort/internal/domains/room/model/dto"
	"resort/internal/domains/room/service"
	cacheMocks "resort/shared/cache/mocks"
	"resort/shared/constant"
	"resort/shared/failure"
)

type roomFixture struct {
	repo     *roomMocks.MockRoom
	bookings *bookingMocks.MockBooking
	cache    *cacheMocks.MockRedisCache
	svc      service.Room
}

func newRoomFixture(ctrl *gomock.Controller) *roomFixture {
	f := &roomFixture{
		repo:     roomMocks.NewMockRoom(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.bookings, cfg, f.cache, mocks.NewOtel())

	// Cache writes and invalidations run on goroutines.
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyPrincipalID, "admin-id")

	return context.WithValue(ctx, constant.ContextKeyPrincipalKind, constant.PrincipalKindAdmin)
}

func validCreateRequest() dto.CreateRoomRequest {
	return dto.CreateRoomRequest{
		Number:      "101",
		Type:        "deluxe",
		NightlyRate: 150,
		Capacity:    2,
	}
}

func TestRoomService_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupMock func(f *roomFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "creates a room",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "rejects a duplicate room number",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "propagates repository errors",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newRoomFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Create(adminContext(), validCreateRequest())

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Update(t *testing.T) {
	t.Parallel()

	number := "202"

	tests := []struct {
		name      string
		req       dto.UpdateRoomRequest
		setupMock func(f *roomFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "updates the room number",
			req:  dto.UpdateRoomRequest{Number: number},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "rejects an empty update",
			req:       dto.UpdateRoomRequest{},
			setupMock: func(f *roomFixture) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "returns not found for an unknown room",
			req:  dto.UpdateRoomRequest{Number: number},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "rejects a number already taken by another room",
			req:  dto.UpdateRoomRequest{Number: number},
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newRoomFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Update(adminContext(), tt.req, "room-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupMock func(f *roomFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "deletes an idle room",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "returns not found for an unknown room",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "refuses to delete a room with active bookings",
			setupMock: func(f *roomFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newRoomFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Delete(adminContext(), "room-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupMock func(f *roomFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "returns the room on a cache miss",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1", Number: "101"}, nil)
			},
		},
		{
			name: "returns not found for an unknown room",
			setupMock: func(f *roomFixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newRoomFixture(ctrl)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "room-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "room-1", res.ID)
		})
	}
}
