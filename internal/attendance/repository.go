package attendance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrAlreadyCheckedIn = errors.New("member already has an open check-in today")
	ErrNoOpenAttendance = errors.New("no open check-in found for today")
)

const attendanceColumns = `id, member_id,
	to_char(attendance_date, 'YYYY-MM-DD') AS attendance_date,
	check_in_time, check_out_time, method`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CheckIn opens a new attendance row for today. The member row is locked so
// two concurrent check-ins for the same member cannot both pass the
// open-row check.
func (r *repository) CheckIn(ctx context.Context, memberID int, method string) (*Attendance, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var lockedID int
	err = tx.GetContext(ctx, &lockedID, `SELECT id FROM members WHERE id = $1 FOR UPDATE`, memberID)
	if err != nil {
		return nil, err
	}

	var open bool
	err = tx.GetContext(ctx, &open, `
		SELECT EXISTS(
			SELECT 1 FROM attendance
			WHERE member_id = $1 AND attendance_date = CURRENT_DATE AND check_out_time IS NULL
		)`, memberID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrAlreadyCheckedIn
	}

	query := `
		INSERT INTO attendance (member_id, attendance_date, check_in_time, method)
		VALUES ($1, CURRENT_DATE, NOW(), $2)
		RETURNING ` + attendanceColumns

	var a Attendance
	err = tx.GetContext(ctx, &a, query, memberID, method)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &a, nil
}

// CheckOut closes today's open row. Closed rows stay closed; a later
// check-in the same day starts a fresh row.
func (r *repository) CheckOut(ctx context.Context, memberID int) (*Attendance, error) {
	query := `
		UPDATE attendance
		SET check_out_time = NOW()
		WHERE member_id = $1 AND attendance_date = CURRENT_DATE AND check_out_time IS NULL
		RETURNING ` + attendanceColumns

	var a Attendance
	err := r.db.GetContext(ctx, &a, query, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenAttendance
		}
		return nil, err
	}

	return &a, nil
}

func (r *repository) ListToday(ctx context.Context) ([]AttendanceWithMember, error) {
	query := `
		SELECT a.id, a.member_id,
		       to_char(a.attendance_date, 'YYYY-MM-DD') AS attendance_date,
		       a.check_in_time, a.check_out_time, a.method,
		       m.first_name, m.last_name
		FROM attendance a
		JOIN members m ON a.member_id = m.id
		WHERE a.attendance_date = CURRENT_DATE
		ORDER BY a.check_in_time DESC
	`

	var rows []AttendanceWithMember
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *repository) TodayStats(ctx context.Context) (*TodayStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_visits,
			COUNT(*) FILTER (WHERE check_out_time IS NULL) AS currently_in_gym
		FROM attendance
		WHERE attendance_date = CURRENT_DATE
	`

	var stats TodayStats
	err := r.db.GetContext(ctx, &stats, query)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *repository) MemberHistory(ctx context.Context, memberID, limit, offset int) ([]Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE member_id = $1
		ORDER BY check_in_time DESC
		LIMIT $2 OFFSET $3
	`

	var rows []Attendance
	err := r.db.SelectContext(ctx, &rows, query, memberID, limit, offset)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *repository) CountMemberHistory(ctx context.Context, memberID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM attendance WHERE member_id = $1`, memberID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) MemberStats(ctx context.Context, memberID int) (*MemberStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_visits,
			COUNT(*) FILTER (WHERE date_trunc('month', attendance_date) = date_trunc('month', CURRENT_DATE)) AS this_month,
			COALESCE(AVG(EXTRACT(EPOCH FROM (check_out_time - check_in_time)) / 60) FILTER (WHERE check_out_time IS NOT NULL), 0) AS avg_minutes
		FROM attendance
		WHERE member_id = $1
	`

	var stats MemberStats
	err := r.db.GetContext(ctx, &stats, query, memberID)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
