package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Arulthas05/gym-management-backend/internal/logger"
	"github.com/Arulthas05/gym-management-backend/internal/report"
)

// MembershipJobs is the lifecycle sweep surface.
type MembershipJobs interface {
	ExpireOverdue(ctx context.Context) (int64, error)
	SendExpiryReminders(ctx context.Context) error
	AutoRenew(ctx context.Context) (int, error)
}

// SessionJobs is the booking sweep surface.
type SessionJobs interface {
	MarkNoShows(ctx context.Context) (int64, error)
	SendSessionReminders(ctx context.Context) error
}

// PaymentJobs is the settlement sweep surface.
type PaymentJobs interface {
	SendPaymentReminders(ctx context.Context) error
}

// Reporter produces the monthly aggregate.
type Reporter interface {
	PreviousMonth(ctx context.Context, now time.Time) (*report.Monthly, error)
}

// Scheduler owns the cron runner and the service handles its jobs sweep
// over. It is constructed once at process init and stopped explicitly on
// shutdown; a job failure is logged and never takes the schedule down.
type Scheduler struct {
	cron        *cron.Cron
	memberships MembershipJobs
	sessions    SessionJobs
	payments    PaymentJobs
	reports     Reporter
	jobTimeout  time.Duration
}

func New(memberships MembershipJobs, sessions SessionJobs, payments PaymentJobs, reports Reporter) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		memberships: memberships,
		sessions:    sessions,
		payments:    payments,
		reports:     reports,
		jobTimeout:  10 * time.Minute,
	}
}

func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func(context.Context) error
	}{
		{"0 0 * * *", "expire_memberships", s.expireMemberships},
		{"30 0 * * *", "auto_renew", s.autoRenew},
		{"0 8 * * *", "session_reminders", s.sessions.SendSessionReminders},
		{"0 9 * * *", "expiry_reminders", s.memberships.SendExpiryReminders},
		{"0 10 * * *", "payment_reminders", s.payments.SendPaymentReminders},
		{"0 23 * * *", "mark_no_shows", s.markNoShows},
		{"0 6 1 * *", "monthly_report", s.monthlyReport},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, s.wrap(job.name, job.run)); err != nil {
			return err
		}
	}

	s.cron.Start()
	logger.Infof("Scheduler started with %d jobs", len(jobs))
	return nil
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}

func (s *Scheduler) wrap(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		if err := run(ctx); err != nil {
			logger.Errorf("Scheduled job %s failed: %v", name, err)
		}
	}
}

func (s *Scheduler) expireMemberships(ctx context.Context) error {
	rows, err := s.memberships.ExpireOverdue(ctx)
	if err != nil {
		return err
	}
	if rows > 0 {
		logger.Infof("Expired %d overdue memberships", rows)
	}
	return nil
}

func (s *Scheduler) autoRenew(ctx context.Context) error {
	renewed, err := s.memberships.AutoRenew(ctx)
	if err != nil {
		return err
	}
	if renewed > 0 {
		logger.Infof("Auto-renewed %d memberships", renewed)
	}
	return nil
}

func (s *Scheduler) markNoShows(ctx context.Context) error {
	rows, err := s.sessions.MarkNoShows(ctx)
	if err != nil {
		return err
	}
	if rows > 0 {
		logger.Infof("Marked %d sessions as no-show", rows)
	}
	return nil
}

func (s *Scheduler) monthlyReport(ctx context.Context) error {
	r, err := s.reports.PreviousMonth(ctx, time.Now())
	if err != nil {
		return err
	}

	logger.Infof("Monthly report %s: revenue=%.2f transactions=%d new_members=%d sessions=%d avg_daily_attendance=%.1f",
		r.Month, r.Revenue, r.Transactions, r.NewMembers, r.SessionsHeld, r.AvgDailyAttendance)
	return nil
}
