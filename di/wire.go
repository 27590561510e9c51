//go:build wireinject
// +build wireinject

package di

import (
	"resort/config"
	"resort/infras/jwt"
	"resort/infras/kafka"
	"resort/infras/mailer"
	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/infras/redis"
	"resort/permissions"
	"resort/shared/cache"
	"resort/transport/http"
	"resort/transport/http/middleware"
	"resort/transport/http/router"

	"github.com/google/wire"

	activityRepository "resort/internal/domains/activity/repository"
	activityService "resort/internal/domains/activity/service"
	adminRepository "resort/internal/domains/admin/repository"
	adminService "resort/internal/domains/admin/service"
	authService "resort/internal/domains/auth/service"
	bookingRepository "resort/internal/domains/booking/repository"
	bookingService "resort/internal/domains/booking/service"
	roomRepository "resort/internal/domains/room/repository"
	roomService "resort/internal/domains/room/service"
	statsService "resort/internal/domains/stats/service"
	visitorRepository "resort/internal/domains/visitor/repository"
	visitorService "resort/internal/domains/visitor/service"

	activityHandler "resort/internal/handlers/activity"
	adminHandler "resort/internal/handlers/admin"
	authHandler "resort/internal/handlers/auth"
	bookingHandler "resort/internal/handlers/booking"
	contactHandler "resort/internal/handlers/contact"
	roomHandler "resort/internal/handlers/room"
	statsHandler "resort/internal/handlers/stats"
	visitorHandler "resort/internal/handlers/visitor"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	mailer.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	cache.NewRedisLocker,
)

var adminDomain = wire.NewSet(
	adminRepository.New,
	adminService.New,
)

var visitorDomain = wire.NewSet(
	visitorRepository.New,
	visitorService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var activityDomain = wire.NewSet(
	activityRepository.New,
	activityService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var statsDomain = wire.NewSet(
	statsService.New,
)

var domains = wire.NewSet(
	adminDomain,
	visitorDomain,
	authDomain,
	activityDomain,
	roomDomain,
	bookingDomain,
	statsDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	adminHandler.New,
	visitorHandler.New,
	roomHandler.New,
	bookingHandler.New,
	statsHandler.New,
	activityHandler.New,
	contactHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
