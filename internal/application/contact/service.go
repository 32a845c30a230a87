package contact

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	contactdomain "github.com/datamaq/notifier/internal/domain/contact"
	"github.com/datamaq/notifier/internal/domain/shared"
	"github.com/datamaq/notifier/internal/infrastructure/logger"
)

// MailGateway relays an accepted submission to email
type MailGateway interface {
	Deliver(msg contactdomain.Message, requestID string)
}

// Result is the acknowledgment returned to the submitter
type Result struct {
	RequestID string
	Status    string
	Message   string
}

// Service handles contact-form intake: it filters automated submissions via
// the honeypot field, assigns a request id, and hands accepted messages to
// the mail gateway on the background path.
type Service struct {
	mail          MailGateway
	honeypotField string
	logger        *zap.Logger
}

// NewService creates the contact service
func NewService(mail MailGateway, honeypotField string, log *zap.Logger) *Service {
	return &Service{
		mail:          mail,
		honeypotField: honeypotField,
		logger:        log,
	}
}

// Submit validates the submission and returns its acknowledgment. The actual
// mail relay is the caller's responsibility (Deliver), scheduled after the
// response is sent.
func (s *Service) Submit(msg contactdomain.Message, clientIP, endpoint, successMessage string) (Result, error) {
	if msg.HoneypotValue(s.honeypotField) != "" {
		s.logger.Warn("contact_honeypot_triggered",
			zap.String("endpoint", endpoint),
			zap.String("client_ip", logger.MaskIdentifier(clientIP, 3, 2)),
		)
		return Result{}, shared.ErrHoneypot
	}

	requestID := uuid.NewString()
	s.logger.Info("contact_request_accepted",
		zap.String("request_id", logger.MaskIdentifier(requestID, 3, 3)),
		zap.String("endpoint", endpoint),
		zap.String("email", logger.MaskEmail(msg.Email)),
		zap.String("client_ip", logger.MaskIdentifier(clientIP, 3, 2)),
	)

	return Result{
		RequestID: requestID,
		Status:    "accepted",
		Message:   successMessage,
	}, nil
}

// Deliver relays an accepted submission. Intended to run detached from the
// request; failures are handled (logged) by the gateway.
func (s *Service) Deliver(msg contactdomain.Message, requestID string) {
	s.mail.Deliver(msg, requestID)
}
