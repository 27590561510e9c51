package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"resort/infras/otel"
	"resort/internal/domains/admin/model"
	"resort/internal/domains/admin/model/dto"
	"resort/internal/domains/admin/service"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/validator"
	"resort/transport/http/response"
)

type Handler struct {
	service service.Admin
	otel    otel.Otel
}

func New(service service.Admin, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/admins", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateAdmin)
		routerGroup.Get("/", handler.GetAdmins)
		routerGroup.Get("/{id}", handler.GetAdminByID)
		routerGroup.Patch("/{id}", handler.UpdateAdmin)
		routerGroup.Delete("/{id}", handler.DeleteAdmin)
	})
}

// CreateAdmin registers a new system user.
// @Summary Create an admin
// @Description Create a new system user. The email must be unique and the password must satisfy the password policy.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateAdminRequest true "Create Admin Request"
// @Success 201 {object} response.Message "Admin created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admins [post]
// @Security BearerAuth
func (handler *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAdmin")
	defer scope.End()

	req := dto.CreateAdminRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create admin")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Admin created successfully")

	response.WithMessage(w, http.StatusCreated, "Admin created successfully")
}

// GetAdmins lists system users.
// @Summary Get all admins
// @Description Retrieve system users with optional filtering and pagination.
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param role query string false "Filter by role"
// @Success 200 {object} response.Data[dto.GetAdminsResponse] "List of admins"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admins [get]
// @Security BearerAuth
func (handler *Handler) GetAdmins(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAdmins")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if role := r.URL.Query().Get(model.FieldRole); role != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRole,
			Operator: gDto.FilterOperatorEq,
			Value:    role,
			Table:    model.TableName,
		})
	}

	admins, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get admins")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Admins retrieved successfully")

	response.WithJSON(w, http.StatusOK, admins)
}

// GetAdminByID retrieves a system user by ID.
// @Summary Get an admin by ID
// @Description Retrieve a system user by its unique identifier.
// @Tags Admin
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Data[dto.AdminResponse] "Admin details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admins/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetAdminByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAdminByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	admin, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get admin by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Admin retrieved successfully")

	response.WithJSON(w, http.StatusOK, admin)
}

// UpdateAdmin updates a system user.
// @Summary Update an admin
// @Description Update a system user's name, email, or role.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Admin ID"
// @Param request body dto.UpdateAdminRequest true "Update Admin Request"
// @Success 200 {object} response.Message "Admin updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admins/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAdmin")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateAdminRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update admin")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Admin updated successfully")

	response.WithMessage(w, http.StatusOK, "Admin updated successfully")
}

// DeleteAdmin removes a system user.
// @Summary Delete an admin
// @Description Permanently remove a system user. The last remaining superadmin cannot be deleted.
// @Tags Admin
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Message "Admin deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admins/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAdmin")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete admin")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Admin deleted successfully")

	response.WithMessage(w, http.StatusOK, "Admin deleted successfully")
}
