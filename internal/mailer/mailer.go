package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/grishakov/retail-platform/internal/models"
)

type EmailSender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	Host string
	Port string
	From string
}

func (s *SMTPSender) Send(to, subject, body string) error {
	addr := s.Host + ":" + s.Port

	msg := "From: " + s.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	return smtp.SendMail(addr, nil, s.From, []string{to}, []byte(msg))
}

// Dispatcher schedules outbound mail with a short delay instead of sending
// inline. Fire-and-forget: delivery errors are logged, never surfaced to the
// request that queued the message.
type Dispatcher struct {
	Sender EmailSender
	Logger *slog.Logger
	Delay  time.Duration
}

func NewDispatcher(sender EmailSender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{Sender: sender, Logger: logger, Delay: 3 * time.Second}
}

func (d *Dispatcher) Schedule(to, subject, body string) {
	go func() {
		time.Sleep(d.Delay)
		if err := d.Sender.Send(to, subject, body); err != nil {
			d.Logger.Error("mail send failed", "to", to, "subject", subject, "error", err)
		}
	}()
}

func (d *Dispatcher) SendOTP(email, code string, purpose models.OTPPurpose) {
	var subject, body string
	if purpose == models.OTPPurposeRegister {
		subject = "Verify Your Email - Registration"
		body = fmt.Sprintf(
			"Welcome!\n\nUse the OTP %s to verify your email and complete registration.\n\nThis OTP will expire in 5 minutes.\n",
			code,
		)
	} else {
		subject = "Password Reset OTP"
		body = fmt.Sprintf(
			"You requested to reset your password.\n\nUse the OTP %s to reset your password.\n\nThis OTP will expire in 5 minutes.\n",
			code,
		)
	}
	d.Schedule(email, subject, body)
}
