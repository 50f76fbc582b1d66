// Package mail delivers one-time codes over SMTP. Delivery is best effort:
// the auth service treats any error here as a signal to fall back to logging
// the code server-side.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Config holds SMTP connection parameters. An empty Host disables delivery.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends OTP mails through a plain-auth SMTP relay.
type SMTPSender struct {
	cfg    Config
	logger *slog.Logger
}

func NewSMTPSender(cfg Config, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger}
}

// SendOTP delivers the verification code to email. It returns an error when
// SMTP is not configured or the relay rejects the message.
func (s *SMTPSender) SendOTP(ctx context.Context, email, code string) error {
	if s.cfg.Host == "" || s.cfg.From == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("mail: smtp not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", email)
	msg.WriteString("Subject: Your AssetFlow OTP Code\r\n")
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "Hello,\r\n\r\nYour verification code for AssetFlow is %s. ", code)
	msg.WriteString("This code expires in 5 minutes.\r\n\r\n")
	msg.WriteString("If you did not request this, you can ignore this email.\r\n\r\nThanks,\r\nAssetFlow\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	authn := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, authn, s.cfg.From, []string{email}, []byte(msg.String())); err != nil {
		return fmt.Errorf("mail: send otp to %s: %w", email, err)
	}

	s.logger.Info("otp email sent", "email", email)
	return nil
}
