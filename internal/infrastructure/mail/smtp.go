package mail

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/datamaq/notifier/internal/domain/contact"
	"github.com/datamaq/notifier/internal/infrastructure/logger"
)

const dialTimeout = 20 * time.Second

// SMTPGateway relays contact submissions to email. Delivery runs on the
// background path, so failures are logged and swallowed.
type SMTPGateway struct {
	host             string
	port             int
	username         string
	password         string
	useTLS           bool
	sender           string
	defaultRecipient string
	logger           *zap.Logger
}

// NewSMTPGateway creates the gateway. Username and password may be empty for
// unauthenticated relays.
func NewSMTPGateway(host string, port int, username, password string, useTLS bool, sender, defaultRecipient string, log *zap.Logger) *SMTPGateway {
	return &SMTPGateway{
		host:             strings.TrimSpace(host),
		port:             port,
		username:         strings.TrimSpace(username),
		password:         password,
		useTLS:           useTLS,
		sender:           strings.TrimSpace(sender),
		defaultRecipient: strings.TrimSpace(defaultRecipient),
		logger:           log,
	}
}

// Deliver sends the contact message to the configured recipient. It never
// returns an error: the submitter already received an accepted response, so
// a failed relay is an operational log line, not a user-facing failure.
func (g *SMTPGateway) Deliver(msg contact.Message, requestID string) {
	if err := g.send(msg, requestID); err != nil {
		g.logger.Error("contact mail delivery failed",
			zap.String("request_id", logger.MaskIdentifier(requestID, 3, 3)),
			zap.String("email", logger.MaskEmail(msg.Email)),
			zap.Error(err),
		)
		return
	}
	g.logger.Info("contact mail delivered",
		zap.String("request_id", logger.MaskIdentifier(requestID, 3, 3)),
	)
}

func (g *SMTPGateway) send(msg contact.Message, requestID string) error {
	addr := fmt.Sprintf("%s:%d", g.host, g.port)

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, g.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if g.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: g.host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if g.username != "" {
		auth := smtp.PlainAuth("", g.username, g.password, g.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(g.sender); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(g.defaultRecipient); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(buildMessage(g.sender, g.defaultRecipient, msg, requestID)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}

	return client.Quit()
}

// buildMessage renders the RFC 5322 message. Header values are sanitized so
// user input cannot inject extra headers.
func buildMessage(sender, recipient string, msg contact.Message, requestID string) []byte {
	var b strings.Builder
	b.WriteString("From: " + sanitizeHeader(sender) + "\r\n")
	b.WriteString("To: " + sanitizeHeader(recipient) + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader("Nuevo contacto de "+msg.Name) + "\r\n")
	b.WriteString("Reply-To: " + sanitizeHeader(msg.Email) + "\r\n")
	b.WriteString("X-Request-ID: " + sanitizeHeader(requestID) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")

	b.WriteString("Nombre: " + msg.Name + "\r\n")
	b.WriteString("Email: " + msg.Email + "\r\n")
	b.WriteString("Mensaje:\r\n" + msg.Body + "\r\n")

	if len(msg.Meta) > 0 {
		meta, err := json.Marshal(msg.Meta)
		if err == nil {
			b.WriteString("\r\nMeta: " + string(meta) + "\r\n")
		}
	}

	return []byte(b.String())
}

func sanitizeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}
