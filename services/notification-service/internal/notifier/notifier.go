package notifier

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// Notifier delivers one message to one recipient. Implementations:
// console (dev) and SMTP email.
type Notifier interface {
	Send(to, subject, message string) error
}

// ConsoleNotifier logs messages instead of delivering them.
type ConsoleNotifier struct{}

func NewConsole() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (c *ConsoleNotifier) Send(to, subject, message string) error {
	log.Printf("[notify] to=%s %s :: %s\n", to, subject, message)
	return nil
}

// EmailNotifier sends plain-text mail over SMTP.
type EmailNotifier struct {
	addr string // host:port
	auth smtp.Auth
	from string
}

func NewEmail(host string, port int, username, password, from string) *EmailNotifier {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &EmailNotifier{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
	}
}

func (e *EmailNotifier) Send(to, subject, message string) error {
	if to == "" {
		return fmt.Errorf("no recipient for %q", subject)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(message)
	return smtp.SendMail(e.addr, e.auth, e.from, []string{to}, []byte(b.String()))
}

// HumanStart formats an RFC3339 start time for message bodies.
func HumanStart(startISO string) string {
	t, err := time.Parse(time.RFC3339, startISO)
	if err != nil {
		return startISO
	}
	return t.Format("2006-01-02 15:04")
}
