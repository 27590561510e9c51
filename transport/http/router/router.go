package router

import (
	"github.com/go-chi/chi/v5"

	"resort/internal/handlers/activity"
	"resort/internal/handlers/admin"
	"resort/internal/handlers/auth"
	"resort/internal/handlers/booking"
	"resort/internal/handlers/contact"
	"resort/internal/handlers/room"
	"resort/internal/handlers/stats"
	"resort/internal/handlers/visitor"
)

type DomainHandlers struct {
	Auth     auth.Handler
	Admin    admin.Handler
	Visitor  visitor.Handler
	Room     room.Handler
	Booking  booking.Handler
	Stats    stats.Handler
	Activity activity.Handler
	Contact  contact.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Admin.Router(routerGroup)
		r.DomainHandlers.Visitor.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Stats.Router(routerGroup)
		r.DomainHandlers.Activity.Router(routerGroup)
		r.DomainHandlers.Contact.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
