package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/rs/zerolog/log"

	"resort/config"
	"resort/infras/otel"
	"resort/shared/constant"
)

// Notifier sends transactional email. The platform treats delivery as a
// black box: callers get ok or fail and decide whether the failure is fatal
// for the operation it was attached to.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpNotifier struct {
	cfg  *config.Config
	otel otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) Notifier {
	return &smtpNotifier{
		cfg:  cfg,
		otel: ot,
	}
}

// Send implements Notifier.
func (n *smtpNotifier) Send(ctx context.Context, to, subject, body string) (err error) {
	_, scope := n.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".mailer.Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	addr := net.JoinHostPort(n.cfg.SMTP.Host, n.cfg.SMTP.Port)
	auth := smtp.PlainAuth("", n.cfg.SMTP.Username, n.cfg.SMTP.Password, n.cfg.SMTP.Host)

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", n.cfg.SMTP.Sender, to, subject, body))

	if err = smtp.SendMail(addr, auth, n.cfg.SMTP.Sender, []string{to}, msg); err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send email")

		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
