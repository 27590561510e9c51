package activity

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"resort/infras/otel"
	"resort/internal/domains/activity/model"
	"resort/internal/domains/activity/service"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/transport/http/response"
)

type Handler struct {
	service service.Activity
	otel    otel.Otel
}

func New(service service.Activity, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/login-activity", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetLoginActivity)
	})
}

// GetLoginActivity lists the login audit trail.
// @Summary Get login activity
// @Description Retrieve the append-only login audit trail, newest first.
// @Tags Activity
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param email query string false "Filter by email"
// @Param source query string false "Filter by source (admin or visitor)"
// @Param outcome query string false "Filter by outcome (success or failure)"
// @Success 200 {object} response.Data[dto.GetActivitiesResponse] "Login activity entries"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/login-activity [get]
// @Security BearerAuth
func (handler *Handler) GetLoginActivity(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLoginActivity")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldEmail, model.FieldSource, model.FieldOutcome} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	activities, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get login activity")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Login activity retrieved successfully")

	response.WithJSON(w, http.StatusOK, activities)
}
