// Package scheduler runs the periodic overdue-account reminder job.
package scheduler

import (
	"fmt"

	"github.com/finsight/analyzer/internal/models"
	"github.com/finsight/analyzer/internal/repository"
	"github.com/finsight/analyzer/internal/utils/email"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler scans stored credit reports on a cron schedule and emails users
// whose reports show overdue accounts.
type Scheduler struct {
	repo   *repository.Repository
	sender *email.Sender
	log    *logrus.Logger
	cron   *cron.Cron
}

// NewScheduler initializes the scheduler
func NewScheduler(repo *repository.Repository, sender *email.Sender, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		repo:   repo,
		sender: sender,
		log:    log,
		cron:   cron.New(),
	}
}

// Start registers the reminder job with the given cron spec and starts the
// cron loop.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runReminders); err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	s.cron.Start()
	s.log.Infof("Reminder scheduler started with spec %q", spec)
	return nil
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runReminders() {
	reports, err := s.repo.ListCreditReports()
	if err != nil {
		s.log.Errorf("Reminder job failed to list reports: %v", err)
		return
	}

	for userID, report := range reports {
		overdue := overdueAccounts(report)
		if len(overdue) == 0 {
			continue
		}

		user, err := s.repo.FindUserByID(userID)
		if err != nil {
			s.log.Errorf("Reminder job failed to load user %d: %v", userID, err)
			continue
		}

		if err := s.sender.SendOverdueNotice(user.Email, user.Username, overdue); err != nil {
			// Sender already logged the failure; move on to the next user.
			continue
		}
	}
}

func overdueAccounts(report *models.CreditReport) []email.OverdueAccount {
	var overdue []email.OverdueAccount
	for _, acc := range report.Accounts {
		if acc.OverdueAmount > 0 {
			overdue = append(overdue, email.OverdueAccount{
				AccountType:   acc.AccountType,
				OverdueAmount: acc.OverdueAmount,
			})
		}
	}
	return overdue
}
