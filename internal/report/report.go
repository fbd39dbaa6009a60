package report

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Monthly aggregates one calendar month of activity.
type Monthly struct {
	Month              string  `json:"month"`
	Revenue            float64 `db:"revenue" json:"revenue"`
	Transactions       int     `db:"transactions" json:"transactions"`
	NewMembers         int     `db:"new_members" json:"new_members"`
	SessionsHeld       int     `db:"sessions_held" json:"sessions_held"`
	AvgDailyAttendance float64 `db:"avg_daily_attendance" json:"avg_daily_attendance"`
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// MonthlyReport aggregates the month containing the given date.
func (r *Repository) MonthlyReport(ctx context.Context, month time.Time) (*Monthly, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	end := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0).Format("2006-01-02")

	report := Monthly{Month: month.Format("2006-01")}

	err := r.db.GetContext(ctx, &report, `
		SELECT
			COALESCE(SUM(amount), 0) AS revenue,
			COUNT(*) AS transactions
		FROM payments
		WHERE payment_status = 'completed'
		  AND created_at >= $1 AND created_at < $2`, start, end)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &report.NewMembers, `
		SELECT COUNT(*) FROM members
		WHERE created_at >= $1 AND created_at < $2`, start, end)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &report.SessionsHeld, `
		SELECT COUNT(*) FROM training_sessions
		WHERE status = 'completed'
		  AND session_date >= $1 AND session_date < $2`, start, end)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &report.AvgDailyAttendance, `
		SELECT COALESCE(AVG(daily.visits), 0)
		FROM (
			SELECT COUNT(*) AS visits
			FROM attendance
			WHERE attendance_date >= $1 AND attendance_date < $2
			GROUP BY attendance_date
		) daily`, start, end)
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// PreviousMonth is what the first-of-month job reports on.
func (r *Repository) PreviousMonth(ctx context.Context, now time.Time) (*Monthly, error) {
	return r.MonthlyReport(ctx, now.AddDate(0, -1, 0))
}
