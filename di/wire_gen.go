// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"github.com/google/wire"
	"resort/config"
	"resort/infras/jwt"
	"resort/infras/kafka"
	"resort/infras/mailer"
	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/infras/redis"
	repository3 "resort/internal/domains/activity/repository"
	"resort/internal/domains/activity/service"
	"resort/internal/domains/admin/repository"
	service4 "resort/internal/domains/admin/service"
	service2 "resort/internal/domains/auth/service"
	repository5 "resort/internal/domains/booking/repository"
	service6 "resort/internal/domains/booking/service"
	repository4 "resort/internal/domains/room/repository"
	service5 "resort/internal/domains/room/service"
	service7 "resort/internal/domains/stats/service"
	repository2 "resort/internal/domains/visitor/repository"
	service3 "resort/internal/domains/visitor/service"
	"resort/internal/handlers/activity"
	"resort/internal/handlers/admin"
	"resort/internal/handlers/auth"
	"resort/internal/handlers/booking"
	"resort/internal/handlers/contact"
	"resort/internal/handlers/room"
	"resort/internal/handlers/stats"
	"resort/internal/handlers/visitor"
	"resort/permissions"
	"resort/shared/cache"
	"resort/transport/http"
	"resort/transport/http/middleware"
	"resort/transport/http/router"
)

// Injectors from wire.go:

func InitializeService() *http.HTTP {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryAdmin := repository.New(connection, otelOtel)
	repositoryVisitor := repository2.New(connection, otelOtel)
	repositoryActivity := repository3.New(connection, otelOtel)
	serviceActivity := service.New(repositoryActivity, configConfig, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	jwtJWT := jwt.New(configConfig)
	serviceAuth := service2.New(repositoryAdmin, repositoryVisitor, serviceActivity, configConfig, redisCache, otelOtel, jwtJWT)
	notifier := mailer.New(configConfig, otelOtel)
	serviceVisitor := service3.New(repositoryVisitor, configConfig, redisCache, notifier, otelOtel)
	handler := auth.New(serviceAuth, serviceVisitor, configConfig, otelOtel)
	serviceAdmin := service4.New(repositoryAdmin, configConfig, redisCache, otelOtel)
	adminHandler := admin.New(serviceAdmin, otelOtel)
	visitorHandler := visitor.New(serviceVisitor, otelOtel)
	repositoryRoom := repository4.New(connection, otelOtel)
	repositoryBooking := repository5.New(connection, otelOtel)
	serviceRoom := service5.New(repositoryRoom, repositoryBooking, configConfig, redisCache, otelOtel)
	roomHandler := room.New(serviceRoom, otelOtel)
	locker := cache.NewRedisLocker(client, otelOtel)
	kafkaClient := kafka.New(configConfig)
	serviceBooking := service6.New(repositoryBooking, repositoryRoom, configConfig, redisCache, locker, kafkaClient, notifier, otelOtel)
	bookingHandler := booking.New(serviceBooking, otelOtel)
	serviceStats := service7.New(repositoryAdmin, repositoryVisitor, repositoryRoom, repositoryBooking, configConfig, otelOtel)
	statsHandler := stats.New(serviceStats, otelOtel)
	activityHandler := activity.New(serviceActivity, otelOtel)
	contactHandler := contact.New(notifier, configConfig, otelOtel)
	domainHandlers := router.DomainHandlers{
		Auth:     handler,
		Admin:    adminHandler,
		Visitor:  visitorHandler,
		Room:     roomHandler,
		Booking:  bookingHandler,
		Stats:    statsHandler,
		Activity: activityHandler,
		Contact:  contactHandler,
	}
	routerRouter := router.New(domainHandlers)
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	permissionData := permissions.Get()
	authRole := middleware.NewAuthRoleMiddleware(jwtJWT, otelOtel, permissionData, redisCache)
	httpHTTP := http.New(configConfig, connection, routerRouter, appMiddleware, authRole)
	return httpHTTP
}

// wire.go:

var configurations = wire.NewSet(config.Get, permissions.Get)

var infrastructures = wire.NewSet(postgres.New, otel.New, redis.New, jwt.New, kafka.New, mailer.New)

var middlewares = wire.NewSet(middleware.NewAppMiddleware, middleware.NewAuthRoleMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache, cache.NewRedisLocker)

var adminDomain = wire.NewSet(repository.New, service4.New)

var visitorDomain = wire.NewSet(repository2.New, service3.New)

var authDomain = wire.NewSet(service2.New)

var activityDomain = wire.NewSet(repository3.New, service.New)

var roomDomain = wire.NewSet(repository4.New, service5.New)

var bookingDomain = wire.NewSet(repository5.New, service6.New)

var statsDomain = wire.NewSet(service7.New)

var domains = wire.NewSet(
	adminDomain,
	visitorDomain,
	authDomain,
	activityDomain,
	roomDomain,
	bookingDomain,
	statsDomain,
)

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), auth.New, admin.New, visitor.New, room.New, booking.New, stats.New, activity.New, contact.New, router.New)
