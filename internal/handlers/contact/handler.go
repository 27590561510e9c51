package contact

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"resort/config"
	"resort/infras/mailer"
	"resort/infras/otel"
	"resort/shared/constant"
	"resort/shared/failure"
	"resort/shared/validator"
	"resort/transport/http/response"
)

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=4000"`
}

type Handler struct {
	notifier mailer.Notifier
	cfg      *config.Config
	otel     otel.Otel
}

func New(notifier mailer.Notifier, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		notifier: notifier,
		cfg:      cfg,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/contact", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.SendMessage)
	})
}

// SendMessage forwards a contact form submission to the front desk.
// @Summary Send a contact message
// @Description Validate a contact form submission and forward it to the front-desk inbox. Mail delivery is part of the operation, so a mail outage surfaces as 503.
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact Request"
// @Success 200 {object} response.Message "Message sent successfully"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/contact [post]
func (handler *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SendMessage")
	defer scope.End()

	req := ContactRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	subject := fmt.Sprintf("Contact form message from %s", req.Name)
	body := fmt.Sprintf("From: %s <%s>\r\n\r\n%s", req.Name, req.Email, req.Message)

	if err := handler.notifier.Send(ctx, handler.cfg.SMTP.Recipient, subject, body); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to send contact message")

		response.WithError(w, failure.Unavailable("could not deliver the message, try again later")) //nolint:wrapcheck

		return
	}

	scope.AddEvent("Contact message sent successfully")

	response.WithMessage(w, http.StatusOK, "Message sent successfully")
}
