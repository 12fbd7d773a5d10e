package email

import (
	"fmt"
	"net/smtp"

	"github.com/finsight/analyzer/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// OverdueAccount describes one overdue credit account for the notice body
type OverdueAccount struct {
	AccountType   string
	OverdueAmount float64
}

// SendOverdueNotice emails the user a summary of credit accounts their
// latest report shows as overdue.
func (s *Sender) SendOverdueNotice(to, username string, accounts []OverdueAccount) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Overdue Credit Account Notice"

	body := fmt.Sprintf("Dear %s,\n\n", username)
	body += "Your latest credit report shows the following accounts with overdue amounts:\n\n"
	for _, acc := range accounts {
		body += fmt.Sprintf("  - %s: overdue ₹%.2f\n", acc.AccountType, acc.OverdueAmount)
	}
	body += "\nClearing overdue amounts promptly helps protect your credit score.\n"
	body += "\nBest regards,\nFinSight Analyzer"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send overdue notice to %s: %v", to, err)
		return fmt.Errorf("failed to send overdue notice: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
