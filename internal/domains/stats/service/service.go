package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"resort/config"
	"resort/infras/otel"
	adminRepo "resort/internal/domains/admin/repository"
	bookingModel "resort/internal/domains/booking/model"
	bookingRepo "resort/internal/domains/booking/repository"
	roomRepo "resort/internal/domains/room/repository"
	"resort/internal/domains/stats/model/dto"
	visitorModel "resort/internal/domains/visitor/model"
	visitorRepo "resort/internal/domains/visitor/repository"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
)

type Stats interface {
	Overview(ctx context.Context) (dto.StatsResponse, error)
}

type serviceImpl struct {
	admins   adminRepo.Admin
	visitors visitorRepo.Visitor
	rooms    roomRepo.Room
	bookings bookingRepo.Booking
	cfg      *config.Config
	otel     otel.Otel
}

func New(admins adminRepo.Admin, visitors visitorRepo.Visitor, rooms roomRepo.Room, bookings bookingRepo.Booking, cfg *config.Config, ot otel.Otel) Stats {
	return &serviceImpl{
		admins:   admins,
		visitors: visitors,
		rooms:    rooms,
		bookings: bookings,
		cfg:      cfg,
		otel:     ot,
	}
}

// Overview is computed fresh on every call, never cached: a dashboard that
// shows stale revenue is worse than one that is briefly unavailable. Any
// failed fetch fails the whole response.
func (s *serviceImpl) Overview(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".stats.Overview")
	defer scope.End()
	defer scope.TraceIfError(err)

	visitorTotal, err := s.visitors.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		return s.unavailable(err)
	}

	visitorActive, err := s.visitors.Count(ctx, activeVisitorFilter(true))
	if err != nil {
		return s.unavailable(err)
	}

	systemUsers, err := s.admins.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		return s.unavailable(err)
	}

	roomCount, err := s.rooms.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		return s.unavailable(err)
	}

	// Revenue counts checked-out stays only. Cancellations and in-flight
	// bookings contribute nothing.
	checkedOut, err := s.bookings.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Value:    string(bookingModel.StatusCheckedOut),
				Operator: gDto.FilterOperatorEq,
				Table:    bookingModel.TableName,
			},
		},
	})
	if err != nil {
		return s.unavailable(err)
	}

	totalRevenue := 0.0
	for _, booking := range checkedOut {
		totalRevenue += booking.StayAmount()
	}

	res = dto.StatsResponse{
		VisitorAccounts:         visitorTotal,
		ActiveVisitorAccounts:   visitorActive,
		InactiveVisitorAccounts: visitorTotal - visitorActive,
		SystemUsers:             systemUsers,
		RoomCount:               roomCount,
		TotalRevenue:            totalRevenue,
	}

	return res, nil
}

func (s *serviceImpl) unavailable(err error) (dto.StatsResponse, error) {
	log.Error().Err(err).Msg("failed to gather statistics")

	return dto.StatsResponse{}, failure.Unavailable("statistics unavailable") //nolint:wrapcheck
}

func activeVisitorFilter(active bool) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    visitorModel.FieldIsActive,
				Value:    active,
				Operator: gDto.FilterOperatorEq,
				Table:    visitorModel.TableName,
			},
		},
	}
}
