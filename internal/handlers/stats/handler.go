package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"resort/infras/otel"
	"resort/internal/domains/stats/service"
	"resort/shared/constant"
	"resort/transport/http/response"
)

type Handler struct {
	service service.Stats
	otel    otel.Otel
}

func New(service service.Stats, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/stats", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetStats)
	})
}

// GetStats returns the platform overview.
// @Summary Get platform statistics
// @Description Retrieve account counts, room count, and total revenue from completed stays. Computed live on every request.
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Data[dto.StatsResponse] "Platform statistics"
// @Failure 503 {object} response.Error
// @Router /v1/stats [get]
// @Security BearerAuth
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	overview, err := handler.service.Overview(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get statistics")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Statistics retrieved successfully")

	response.WithJSON(w, http.StatusOK, overview)
}
