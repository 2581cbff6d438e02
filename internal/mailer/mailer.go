// Package mailer sends contact notifications over SMTP. Delivery is
// best-effort; callers decide what a failure means.
package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/rmarin/portfolio-be/internal/models"
)

// Mailer sends notification emails through a single SMTP host.
type Mailer struct {
	host    string
	port    int
	user    string
	pass    string
	to      string
	timeout time.Duration
}

// New creates a Mailer. Returns nil when host is empty, which disables
// notifications.
func New(host string, port int, user, pass, to string, timeout time.Duration) *Mailer {
	if host == "" {
		return nil
	}
	return &Mailer{host: host, port: port, user: user, pass: pass, to: to, timeout: timeout}
}

// NotifyNewContact emails the site owner about a new contact message.
func (m *Mailer) NotifyNewContact(msg models.ContactMessage) error {
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", m.user)
	fmt.Fprintf(&body, "To: %s\r\n", m.to)
	fmt.Fprintf(&body, "Subject: New contact message: %s\r\n", msg.Subject)
	body.WriteString("\r\n")
	fmt.Fprintf(&body, "From: %s <%s>\r\n\r\n%s\r\n", msg.Name, msg.Email, msg.Message)

	return m.send([]string{m.to}, []byte(body.String()))
}

// send dials with a bounded timeout and runs the SMTP conversation. A
// timeout surfaces as a regular send error.
func (m *Mailer) send(to []string, body []byte) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	conn, err := net.DialTimeout("tcp", addr, m.timeout)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("smtp deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.user != "" {
		auth := smtp.PlainAuth("", m.user, m.pass, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	from := m.user
	if from == "" {
		from = m.to
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
