package visitor

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"resort/infras/otel"
	"resort/internal/domains/visitor/model"
	"resort/internal/domains/visitor/model/dto"
	"resort/internal/domains/visitor/service"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
	"resort/shared/validator"
	"resort/transport/http/response"
)

type Handler struct {
	service service.Visitor
	otel    otel.Otel
}

func New(service service.Visitor, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/visitors", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetVisitors)
		routerGroup.Get("/me", handler.GetProfile)
		routerGroup.Get("/{id}", handler.GetVisitorByID)
		routerGroup.Patch("/{id}", handler.UpdateVisitor)
		routerGroup.Patch("/{id}/activate", handler.ActivateVisitor)
		routerGroup.Patch("/{id}/deactivate", handler.DeactivateVisitor)
		routerGroup.Delete("/{id}", handler.DeleteVisitor)
	})
}

// GetVisitors lists visitor accounts.
// @Summary Get all visitor accounts
// @Description Retrieve visitor accounts with optional filtering and pagination.
// @Tags Visitor
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param is_active query bool false "Filter by active flag"
// @Param email query string false "Filter by email (substring match)"
// @Success 200 {object} response.Data[dto.GetVisitorsResponse] "List of visitor accounts"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/visitors [get]
// @Security BearerAuth
func (handler *Handler) GetVisitors(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVisitors")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if active := r.URL.Query().Get(model.FieldIsActive); active != "" {
		if value, err := strconv.ParseBool(active); err == nil {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    model.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if email := r.URL.Query().Get(model.FieldEmail); email != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldEmail,
			Operator: gDto.FilterOperatorLike,
			Value:    email,
			Table:    model.TableName,
		})
	}

	visitors, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get visitors")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Visitors retrieved successfully")

	response.WithJSON(w, http.StatusOK, visitors)
}

// GetProfile returns the authenticated visitor's own account.
// @Summary Get own profile
// @Description Retrieve the profile of the currently authenticated visitor.
// @Tags Visitor
// @Produce json
// @Success 200 {object} response.Data[dto.VisitorResponse] "Profile"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/visitors/me [get]
// @Security BearerAuth
func (handler *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProfile")
	defer scope.End()

	principalID, ok := ctx.Value(constant.ContextKeyPrincipalID).(string)
	if !ok || principalID == "" {
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	visitor, err := handler.service.Get(ctx, principalID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own profile")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, visitor)
}

// GetVisitorByID retrieves a visitor account by ID.
// @Summary Get a visitor account by ID
// @Description Retrieve a visitor account by its unique identifier.
// @Tags Visitor
// @Produce json
// @Param id path string true "Visitor ID"
// @Success 200 {object} response.Data[dto.VisitorResponse] "Visitor details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/visitors/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetVisitorByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVisitorByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := ownAccountOnly(ctx, id); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	visitor, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get visitor by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Visitor retrieved successfully")

	response.WithJSON(w, http.StatusOK, visitor)
}

// UpdateVisitor updates a visitor account's details.
// @Summary Update a visitor account
// @Description Update a visitor's name or phone. The phone number must remain unique.
// @Tags Visitor
// @Accept json
// @Produce json
// @Param id path string true "Visitor ID"
// @Param request body dto.UpdateVisitorRequest true "Update Visitor Request"
// @Success 200 {object} response.Message "Visitor updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/visitors/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateVisitor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateVisitor")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := ownAccountOnly(ctx, id); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.UpdateVisitorRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update visitor")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Visitor updated successfully")

	response.WithMessage(w, http.StatusOK, "Visitor updated successfully")
}

// ActivateVisitor re-enables a deactivated account.
// @Summary Activate a visitor account
// @Description Allow a deactivated visitor account to log in again.
// @Tags Visitor
// @Produce json
// @Param id path string true "Visitor ID"
// @Success 200 {object} response.Message "Visitor activated successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/visitors/{id}/activate [patch]
// @Security BearerAuth
func (handler *Handler) ActivateVisitor(w http.ResponseWriter, r *http.Request) {
	handler.setActive(w, r, true, "ActivateVisitor", "Visitor activated successfully")
}

// DeactivateVisitor blocks an account from logging in.
// @Summary Deactivate a visitor account
// @Description Block a visitor account from logging in. Existing bookings are untouched.
// @Tags Visitor
// @Produce json
// @Param id path string true "Visitor ID"
// @Success 200 {object} response.Message "Visitor deactivated successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/visitors/{id}/deactivate [patch]
// @Security BearerAuth
func (handler *Handler) DeactivateVisitor(w http.ResponseWriter, r *http.Request) {
	handler.setActive(w, r, false, "DeactivateVisitor", "Visitor deactivated successfully")
}

// DeleteVisitor removes a visitor account.
// @Summary Delete a visitor account
// @Description Permanently remove a visitor account.
// @Tags Visitor
// @Produce json
// @Param id path string true "Visitor ID"
// @Success 200 {object} response.Message "Visitor deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/visitors/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteVisitor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteVisitor")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete visitor")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Visitor deleted successfully")

	response.WithMessage(w, http.StatusOK, "Visitor deleted successfully")
}

// ownAccountOnly restricts visitor principals to their own account; admin
// principals pass through.
func ownAccountOnly(ctx context.Context, id string) error {
	kind, _ := ctx.Value(constant.ContextKeyPrincipalKind).(string)
	if kind != constant.PrincipalKindVisitor {
		return nil
	}

	principalID, _ := ctx.Value(constant.ContextKeyPrincipalID).(string)
	if principalID != id {
		return failure.Forbidden("you can only access your own account") //nolint:wrapcheck
	}

	return nil
}

func (handler *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool, scopeName, message string) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+scopeName)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.SetActive(ctx, id, active); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to change visitor active flag")

		response.WithError(w, err)

		return
	}

	scope.AddEvent(message)

	response.WithMessage(w, http.StatusOK, message)
}
