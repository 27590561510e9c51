package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/otel/mocks"
	adminMocks "resort/internal/domains/admin/mocks"
	bookingMocks "resort/internal/domains/booking/mocks"
	bookingModel "resort/internal/domains/booking/model"
	roomMocks "resort/internal/domains/room/mocks"
	"resort/internal/domains/stats/service"
	visitorMocks "resort/internal/domains/visitor/mocks"
	"resort/shared/failure"
)

type statsFixture struct {
	admins   *adminMocks.MockAdmin
	visitors *visitorMocks.MockVisitor
	rooms    *roomMocks.MockRoom
	bookings *bookingMocks.MockBooking
	svc      service.Stats
}

func newStatsFixture(ctrl *gomock.Controller) *statsFixture {
	f := &statsFixture{
		admins:   adminMocks.NewMockAdmin(ctrl),
		visitors: visitorMocks.NewMockVisitor(ctrl),
		rooms:    roomMocks.NewMockRoom(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
	}

	f.svc = service.New(f.admins, f.visitors, f.rooms, f.bookings, &config.Config{}, mocks.NewOtel())

	return f
}

func stay(nights int, price float64, status bookingModel.Status) bookingModel.Booking {
	checkIn := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	return bookingModel.Booking{
		ID:            "booking",
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, nights),
		PricePerNight: price,
		Status:        status,
	}
}

func TestStatsService_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("aggregates counts and revenue", func(t *testing.T) {
		f := newStatsFixture(ctrl)

		f.visitors.EXPECT().Count(gomock.Any(), gomock.Any()).Return(10, nil)
		f.visitors.EXPECT().Count(gomock.Any(), gomock.Any()).Return(7, nil)
		f.admins.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
		f.rooms.EXPECT().Count(gomock.Any(), gomock.Any()).Return(25, nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{
				stay(3, 150, bookingModel.StatusCheckedOut),
				stay(2, 400, bookingModel.StatusCheckedOut),
			}, nil)

		res, err := f.svc.Overview(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 10, res.VisitorAccounts)
		assert.Equal(t, 7, res.ActiveVisitorAccounts)
		assert.Equal(t, 3, res.InactiveVisitorAccounts)
		assert.Equal(t, 3, res.SystemUsers)
		assert.Equal(t, 25, res.RoomCount)
		assert.InDelta(t, 3*150+2*400, res.TotalRevenue, 0.001)
	})

	t.Run("empty platform yields zeros", func(t *testing.T) {
		f := newStatsFixture(ctrl)

		f.visitors.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil).Times(2)
		f.admins.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.rooms.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]bookingModel.Booking{}, nil)

		res, err := f.svc.Overview(context.Background())

		assert.NoError(t, err)
		assert.Zero(t, res.VisitorAccounts)
		assert.Zero(t, res.TotalRevenue)
	})

	t.Run("any failed fetch makes the whole response unavailable", func(t *testing.T) {
		f := newStatsFixture(ctrl)

		f.visitors.EXPECT().Count(gomock.Any(), gomock.Any()).Return(10, nil)
		f.visitors.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database down"))

		_, err := f.svc.Overview(context.Background())

		assert.Error(t, err)
		assert.Equal(t, 503, failure.GetCode(err))
		assert.Contains(t, err.Error(), "statistics unavailable")
	})
}
