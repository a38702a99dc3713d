package notifier

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"

	trackererr "sjsage522/pricetracker/pkg/errors"
)

// EmailNotifier delivers alerts over SMTP. The app password is read from
// the SMTP_PASSWORD environment variable (loaded from .env at startup);
// the sender falls back to EMAIL_SENDER when not configured.
type EmailNotifier struct {
	enabled   bool
	smtpAddr  string
	sender    string
	recipient string
	password  string
}

var _ Notifier = (*EmailNotifier)(nil)

// NewEmailNotifier creates an email notifier. A disabled notifier is still
// valid and treats every Notify call as a no-op success.
func NewEmailNotifier(enabled bool, smtpAddr, sender, recipient string) *EmailNotifier {
	if sender == "" {
		sender = os.Getenv("EMAIL_SENDER")
	}
	return &EmailNotifier{
		enabled:   enabled,
		smtpAddr:  smtpAddr,
		sender:    sender,
		recipient: recipient,
		password:  os.Getenv("SMTP_PASSWORD"),
	}
}

// Notify sends the alert as a plain-text email.
func (n *EmailNotifier) Notify(ctx context.Context, alert Alert) error {
	if !n.enabled {
		return nil
	}
	if n.sender == "" || n.recipient == "" || n.password == "" {
		return trackererr.NewConfiguration("email alert enabled but sender, recipient or SMTP_PASSWORD is missing", nil)
	}

	host, _, err := net.SplitHostPort(n.smtpAddr)
	if err != nil {
		return trackererr.NewConfiguration(fmt.Sprintf("invalid smtp address %q", n.smtpAddr), err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.sender)
	fmt.Fprintf(&msg, "To: %s\r\n", n.recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", alert.Subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(alert.Body)

	auth := smtp.PlainAuth("", n.sender, n.password, host)
	if err := smtp.SendMail(n.smtpAddr, auth, n.sender, []string{n.recipient}, []byte(msg.String())); err != nil {
		return trackererr.NewNotification(alert.URL, "failed to send email alert", err)
	}
	return nil
}

// Close implements Notifier; SMTP connections are not kept open.
func (n *EmailNotifier) Close() error { return nil }
