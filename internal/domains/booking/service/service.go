package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"resort/config"
	"resort/infras/kafka"
	"resort/infras/mailer"
	"resort/infras/otel"
	"resort/internal/domains/booking/model"
	"resort/internal/domains/booking/model/dto"
	"resort/internal/domains/booking/repository"
	roomModel "resort/internal/domains/room/model"
	roomRepo "resort/internal/domains/room/repository"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
	"resort/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Transition(ctx context.Context, id string, req dto.TransitionBookingRequest) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	locker   cache.Locker
	events   kafka.Client
	notifier mailer.Notifier
	otel     otel.Otel
}

func New(repo repository.Booking, roomRepo roomRepo.Room, cfg *config.Config, redisCache cache.RedisCache, locker cache.Locker, events kafka.Client, notifier mailer.Notifier, ot otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    redisCache,
		locker:   locker,
		events:   events,
		notifier: notifier,
		otel:     ot,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyPrincipalID).(string)
	kind, _ := ctx.Value(constant.ContextKeyPrincipalKind).(string)

	if req.Status == string(model.StatusConfirmed) && kind != constant.PrincipalKindAdmin {
		return failure.Forbidden("only an admin can create a confirmed booking") //nolint:wrapcheck
	}

	booking, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to build booking from request")

		return err
	}

	roomExists, err := s.roomRepo.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !roomExists {
		return failure.BadRequestFromString("room does not exist") //nolint:wrapcheck
	}

	// Serialize the overlap check per room so two concurrent creations cannot
	// both pass it. The schema's exclusion constraint remains the backstop.
	lockKey := shared.BuildCacheKey(constant.CacheKeyRoomLock, req.RoomID)

	acquired, err := s.locker.Acquire(ctx, lockKey, s.cfg.Session.RoomLockTTLSec)
	if err != nil {
		log.Error().Err(err).Msg("failed to acquire room lock")

		return fmt.Errorf("failed to acquire room lock: %w", err)
	}

	if !acquired {
		return failure.Conflict("room is being booked by another request, try again") //nolint:wrapcheck
	}

	defer func() {
		if releaseErr := s.locker.Release(context.WithoutCancel(ctx), lockKey); releaseErr != nil {
			log.Warn().Err(releaseErr).Str("room_id", req.RoomID).Msg("failed to release room lock")
		}
	}()

	overlap, err := s.repo.HasOverlap(ctx, booking.RoomID, booking.CheckIn, booking.CheckOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking overlap")

		return fmt.Errorf("failed to check booking overlap: %w", err)
	}

	if overlap {
		return failure.Conflict("room is already booked for the requested dates") //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return fmt.Errorf("failed to create booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyPrincipalID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Transition is the only writer of booking status. Every move is checked
// against the lifecycle table plus its date precondition; an illegal request
// fails with a conflict, never a silent clamp to the nearest legal state.
func (s *serviceImpl) Transition(ctx context.Context, id string, req dto.TransitionBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	to, err := model.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyPrincipalID).(string)
	kind, _ := ctx.Value(constant.ContextKeyPrincipalKind).(string)

	// Confirmation and check-in/out are front-desk actions. A visitor may
	// only cancel, and only their own booking.
	if kind != constant.PrincipalKindAdmin {
		if to != model.StatusCancelled {
			return failure.Forbidden(fmt.Sprintf("only an admin can move a booking to %s", to)) //nolint:wrapcheck
		}

		if booking.CreatedBy != user {
			return failure.Forbidden("you can only cancel your own booking") //nolint:wrapcheck
		}
	}

	from := booking.Status
	if !from.CanTransitionTo(to) {
		return failure.Conflict(fmt.Sprintf("invalid transition from %s to %s", from, to)) //nolint:wrapcheck
	}

	now := timezone.Now()

	if err = checkTransitionDate(booking, to, now); err != nil {
		return err
	}

	updatedFields := map[string]any{
		model.FieldStatus:        string(to),
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to transition booking")

		return fmt.Errorf("failed to transition booking: %w", err)
	}

	scope.AddEvent(fmt.Sprintf("booking %s moved from %s to %s", id, from, to))

	go s.afterTransition(context.WithoutCancel(ctx), booking, from, to, now)

	return nil
}

// Delete is the administrative purge. It is independent of the state machine:
// cancellation retains the record, purge removes it.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

// afterTransition runs the secondary effects of a committed transition. None
// of them can fail the transition itself: the status change is already
// durable, failures here are logged as warnings.
func (s *serviceImpl) afterTransition(ctx context.Context, booking model.Booking, from, to model.Status, at time.Time) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)

	if s.cfg.Kafka.Enable {
		event := dto.NewStatusEvent(booking, from, to, at)

		if err := s.events.SendMessages(ctx, s.cfg.Kafka.BookingTopic, kafka.Message{Key: booking.ID, Value: event}); err != nil {
			log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to publish booking status event")
		}
	}

	if to == model.StatusConfirmed && booking.GuestEmail != "" {
		subject := "Your booking is confirmed"
		body := fmt.Sprintf("Dear %s,\n\nYour booking for room %s from %s to %s has been confirmed.",
			booking.GuestName, booking.RoomID,
			booking.CheckIn.Format(constant.DateOnlyFormat), booking.CheckOut.Format(constant.DateOnlyFormat))

		if err := s.notifier.Send(ctx, booking.GuestEmail, subject, body); err != nil {
			log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to send booking confirmation email")
		}
	}
}

// checkTransitionDate enforces the date preconditions of the lifecycle table:
// a guest cannot check in before the check-in date, and a confirmed booking
// can only be cancelled before its stay begins.
func checkTransitionDate(booking model.Booking, to model.Status, now time.Time) error {
	switch to {
	case model.StatusCheckedIn, model.StatusCheckedOut:
		if now.Before(booking.CheckIn) {
			return failure.Conflict(fmt.Sprintf("cannot move to %s before the check-in date", to)) //nolint:wrapcheck
		}
	case model.StatusCancelled:
		if booking.Status == model.StatusConfirmed && !now.Before(booking.CheckIn) {
			return failure.Conflict("a confirmed booking can only be cancelled before the check-in date") //nolint:wrapcheck
		}
	}

	return nil
}
