package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"resort/config"
	kafkaMocks "resort/infras/kafka/mocks"
	mailerMocks "resort/infras/mailer/mocks"
	"resort/infras/otel/mocks"
	bookingMocks "resort/internal/domains/booking/mocks"
	"resort/internal/domains/booking/model"
	"resort/internal/domains/booking/model/dto"
	"resort/internal/domains/booking/service"
	roomMocks "resort/internal/domains/room/mocks"
	cacheMocks "resort/shared/cache/mocks"
	"resort/shared/constant"
	"resort/shared/failure"
	gModel "resort/shared/model"
	"resort/shared/timezone"
)

type bookingFixture struct {
	repo     *bookingMocks.MockBooking
	roomRepo *roomMocks.MockRoom
	cache    *cacheMocks.MockRedisCache
	locker   *cacheMocks.MockLocker
	events   *kafkaMocks.MockClient
	notifier *mailerMocks.MockNotifier
	svc      service.Booking
}

func newBookingFixture(ctrl *gomock.Controller) *bookingFixture {
	f := &bookingFixture{
		repo:     bookingMocks.NewMockBooking(ctrl),
		roomRepo: roomMocks.NewMockRoom(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		locker:   cacheMocks.NewMockLocker(ctrl),
		events:   kafkaMocks.NewMockClient(ctrl),
		notifier: mailerMocks.NewMockNotifier(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Session.RoomLockTTLSec = 10

	f.svc = service.New(f.repo, f.roomRepo, cfg, f.cache, f.locker, f.events, f.notifier, mocks.NewOtel())

	// Secondary effects run on goroutines and must never fail the call.
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.events.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyPrincipalID, "admin-id")

	return context.WithValue(ctx, constant.ContextKeyPrincipalKind, constant.PrincipalKindAdmin)
}

func visitorContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyPrincipalID, "visitor-id")

	return context.WithValue(ctx, constant.ContextKeyPrincipalKind, constant.PrincipalKindVisitor)
}

func validCreateRequest() dto.CreateBookingRequest {
	checkIn := timezone.Now().AddDate(0, 0, 7)

	return dto.CreateBookingRequest{
		RoomID:        "room-1",
		RoomType:      "deluxe",
		GuestName:     "Jamie Guest",
		GuestEmail:    "jamie@example.com",
		GuestPhone:    "+6281234567890",
		Adults:        2,
		Kids:          1,
		CheckIn:       checkIn.Format(constant.DateOnlyFormat),
		CheckOut:      checkIn.AddDate(0, 0, 3).Format(constant.DateOnlyFormat),
		PricePerNight: 250,
	}
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		ctx       context.Context
		req       func() dto.CreateBookingRequest
		setupMock func(f *bookingFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			ctx:  visitorContext(),
			req:  validCreateRequest,
			setupMock: func(f *bookingFixture) {
				f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), 10).Return(true, nil)
				f.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.locker.EXPECT().Release(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "admin can create confirmed booking",
			ctx:  adminContext(),
			req: func() dto.CreateBookingRequest {
				req := validCreateRequest()
				req.Status = "confirmed"

				return req
			},
			setupMock: func(f *bookingFixture) {
				f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), 10).Return(true, nil)
				f.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.locker.EXPECT().Release(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "visitor cannot create confirmed booking",
			ctx:  visitorContext(),
			req: func() dto.CreateBookingRequest {
				req := validCreateRequest()
				req.Status = "confirmed"

				return req
			},
			setupMock: func(f *bookingFixture) {},
			wantErr:   true,
			wantCode:  403,
		},
		{
			name: "room does not exist",
			ctx:  visitorContext(),
			req:  validCreateRequest,
			setupMock: func(f *bookingFixture) {
				f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "check_out not after check_in",
			ctx:  visitorContext(),
			req: func() dto.CreateBookingRequest {
				req := validCreateRequest()
				req.CheckOut = req.CheckIn

				return req
			},
			setupMock: func(f *bookingFixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "room lock held by another request",
			ctx:  visitorContext(),
			req:  validCreateRequest,
			setupMock: func(f *bookingFixture) {
				f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), 10).Return(false, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "overlapping booking",
			ctx:  visitorContext(),
			req:  validCreateRequest,
			setupMock: func(f *bookingFixture) {
				f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), 10).Return(true, nil)
				f.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).Return(true, nil)
				f.locker.EXPECT().Release(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "repository error",
			ctx:  visitorContext(),
			req:  validCreateRequest,
			setupMock: func(f *bookingFixture) {
				f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), 10).Return(true, nil)
				f.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
				f.locker.EXPECT().Release(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Create(tt.ctx, tt.req())

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			}
		})
	}
}

func TestBookingService_Transition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pastCheckIn := timezone.Now().AddDate(0, 0, -1)
	futureCheckIn := timezone.Now().AddDate(0, 0, 7)

	makeBooking := func(status model.Status, checkIn time.Time) model.Booking {
		return model.Booking{
			ID:            "booking-1",
			RoomID:        "room-1",
			RoomType:      model.RoomTypeDeluxe,
			GuestName:     "Jamie Guest",
			GuestEmail:    "jamie@example.com",
			CheckIn:       checkIn,
			CheckOut:      checkIn.AddDate(0, 0, 3),
			PricePerNight: 250,
			Status:        status,
			Metadata:      gModel.Metadata{CreatedBy: "visitor-id"},
		}
	}

	tests := []struct {
		name      string
		target    string
		setupMock func(f *bookingFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name:   "pending to confirmed",
			target: "confirmed",
			setupMock: func(f *bookingFixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusPending, futureCheckIn), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "confirmed to checked_in on the stay date",
			target: "checked_in",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusConfirmed, pastCheckIn), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "checked_in to checked_out",
			target: "checked_out",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusCheckedIn, pastCheckIn), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "confirmed to cancelled before check-in",
			target: "cancelled",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusConfirmed, futureCheckIn), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "confirmed cannot be cancelled after check-in",
			target: "cancelled",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusConfirmed, pastCheckIn), nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name:   "cannot check in before the stay date",
			target: "checked_in",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusConfirmed, futureCheckIn), nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name:   "checked_out is terminal",
			target: "cancelled",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusCheckedOut, pastCheckIn), nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name:   "pending cannot skip to checked_in",
			target: "checked_in",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusPending, pastCheckIn), nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name:      "unknown status",
			target:    "paused",
			setupMock: func(f *bookingFixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name:   "booking not found",
			target: "confirmed",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Transition(adminContext(), "booking-1", dto.TransitionBookingRequest{Status: tt.target})

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			}
		})
	}
}

func TestBookingService_TransitionAuthority(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	futureCheckIn := timezone.Now().AddDate(0, 0, 7)

	makeBooking := func(status model.Status) model.Booking {
		return model.Booking{
			ID:            "booking-1",
			RoomID:        "room-1",
			RoomType:      model.RoomTypeDeluxe,
			GuestName:     "Jamie Guest",
			GuestEmail:    "jamie@example.com",
			CheckIn:       futureCheckIn,
			CheckOut:      futureCheckIn.AddDate(0, 0, 3),
			PricePerNight: 250,
			Status:        status,
			Metadata:      gModel.Metadata{CreatedBy: "visitor-id"},
		}
	}

	otherVisitorContext := func() context.Context {
		ctx := context.WithValue(context.Background(), constant.ContextKeyPrincipalID, "another-visitor")

		return context.WithValue(ctx, constant.ContextKeyPrincipalKind, constant.PrincipalKindVisitor)
	}

	tests := []struct {
		name      string
		ctx       context.Context
		target    string
		setupMock func(f *bookingFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name:   "visitor cannot confirm a booking",
			ctx:    visitorContext(),
			target: "confirmed",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusPending), nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name:   "visitor cannot confirm another guest's booking",
			ctx:    otherVisitorContext(),
			target: "confirmed",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusPending), nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name:   "visitor cannot check in",
			ctx:    visitorContext(),
			target: "checked_in",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusConfirmed), nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name:   "visitor cancels their own booking",
			ctx:    visitorContext(),
			target: "cancelled",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusPending), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "visitor cannot cancel another guest's booking",
			ctx:    otherVisitorContext(),
			target: "cancelled",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusPending), nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
		{
			name:   "admin confirms on behalf of the desk",
			ctx:    adminContext(),
			target: "confirmed",
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(makeBooking(model.StatusPending), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Transition(tt.ctx, "booking-1", dto.TransitionBookingRequest{Status: tt.target})

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checkIn := timezone.Now().AddDate(0, 0, 7)

	booking := model.Booking{
		ID:            "booking-1",
		RoomID:        "room-1",
		RoomType:      model.RoomTypeSuite,
		GuestName:     "Jamie Guest",
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, 2),
		PricePerNight: 400,
		Status:        model.StatusConfirmed,
	}

	t.Run("cache miss, found in db", func(t *testing.T) {
		f := newBookingFixture(ctrl)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		res, err := f.svc.Get(visitorContext(), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
		assert.Equal(t, 2, res.Nights)
		assert.Equal(t, "confirmed", res.Status)
	})

	t.Run("not found", func(t *testing.T) {
		f := newBookingFixture(ctrl)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(visitorContext(), "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestBookingService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("successful purge", func(t *testing.T) {
		f := newBookingFixture(ctrl)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Delete(adminContext(), "booking-1"))
	})

	t.Run("not found", func(t *testing.T) {
		f := newBookingFixture(ctrl)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Delete(adminContext(), "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
