package email

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"github.com/wneessen/go-mail"

	"github.com/markvault/markvault/internal/config"
	"github.com/markvault/markvault/internal/usecase"
)

func New(logger *slog.Logger) *EmailProvider {
	var (
		smtpHost     = os.Getenv(config.ENV_KEY_SMTP_HOST)
		smtpPort     = os.Getenv(config.ENV_KEY_SMTP_PORT)
		smtpUser     = os.Getenv(config.ENV_KEY_SMTP_USER)
		smtpPassword = os.Getenv(config.ENV_KEY_SMTP_PASSWORD)
		smtpFrom     = os.Getenv(config.ENV_KEY_SMTP_FROM)
	)

	if smtpHost == "" || smtpUser == "" || smtpPassword == "" || smtpPort == "" {
		panic("email: SMTP host, user, and password must be provided")
	}

	smtpPortInt, err := strconv.Atoi(smtpPort)
	if err != nil {
		panic("email: invalid SMTP port: " + err.Error())
	}

	client, err := mail.NewClient(
		smtpHost,
		mail.WithPort(smtpPortInt),
		mail.WithUsername(smtpUser),
		mail.WithPassword(smtpPassword),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
	)
	if err != nil {
		panic("email: failed to create SMTP client: " + err.Error())
	}

	provider := &EmailProvider{
		c:      make(chan *mail.Msg, 100),
		client: client,
		from:   smtpFrom,
		logger: logger,
	}

	// Deliver from a single background worker so callers never block on
	// the SMTP dial.
	go provider.sendEmailWorker()

	return provider
}

type EmailProvider struct {
	c      chan *mail.Msg
	client *mail.Client
	from   string
	logger *slog.Logger
}

func (e *EmailProvider) SendEmail(_ context.Context, email usecase.Email) error {
	from := email.From
	if from == "" {
		from = e.from
	}

	msg := mail.NewMsg()
	msg.From(from)
	msg.To(email.To...)
	msg.Cc(email.CC...)
	msg.Bcc(email.BCC...)
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.Body)

	e.c <- msg

	return nil
}

func (e *EmailProvider) sendEmailWorker() {
	for msg := range e.c {
		if err := e.client.DialAndSend(msg); err != nil {
			e.logger.Error("email: failed to send email", slog.String("err", err.Error()))
		}
	}
}
