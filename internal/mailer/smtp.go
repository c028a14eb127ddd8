package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
)

// ErrDelivery means the mail relay rejected the message or the connection
// failed. The caller decides whether to surface it; no retry is built in.
var ErrDelivery = errors.New("email delivery failed")

// Sender delivers transactional email through an SMTP relay over
// implicit TLS.
type Sender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSender(host, port, username, password, from string) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendOTPEmail delivers a one-time passcode. The code expires 5 minutes
// after issuance.
func (s *Sender) SendOTPEmail(ctx context.Context, to, code string) error {
	body := fmt.Sprintf(`
      <p>Your verification code is <strong>%s</strong>.</p>
      <p>This code will expire in 5 minutes.</p>
      <p>If you did not request this, please ignore this email.</p>
    `, code)
	return s.send(ctx, to, "Your verification code", body)
}

// SendResetEmail delivers a password-reset link.
func (s *Sender) SendResetEmail(ctx context.Context, to, link string) error {
	body := fmt.Sprintf(`
      <p>You requested a password reset.</p>
      <p>Click <a href="%s">here</a> to reset your password. This link will expire in 30 minutes.</p>
      <p>If you did not request this, please ignore this email.</p>
    `, link)
	return s.send(ctx, to, "Password Reset Request", body)
}

func (s *Sender) send(ctx context.Context, to, subject, body string) error {
	msg := []byte(
		fmt.Sprintf("From: %q <%s>\r\n", s.from, s.username) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.host}}
	conn, err := dialer.DialContext(ctx, "tcp", s.host+":"+s.port)
	if err != nil {
		return fmt.Errorf("%w: dial: %v", ErrDelivery, err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("%w: handshake: %v", ErrDelivery, err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("%w: auth: %v", ErrDelivery, err)
	}

	if err := client.Mail(s.username); err != nil {
		return fmt.Errorf("%w: mail from: %v", ErrDelivery, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("%w: rcpt to: %v", ErrDelivery, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%w: data: %v", ErrDelivery, err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("%w: write: %v", ErrDelivery, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrDelivery, err)
	}

	return nil
}
