package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionConflict = errors.New("trainer has a conflicting session at this time")
	ErrSessionFinished = errors.New("session is already completed or marked no-show")
	ErrNotScheduled    = errors.New("session is not in scheduled state")
)

// Dates and times travel as YYYY-MM-DD / HH:MM strings end to end, so the
// DATE and TIME columns are formatted in SQL rather than scanned into
// time.Time.
const sessionColumns = `id, trainer_id, member_id,
	to_char(session_date, 'YYYY-MM-DD') AS session_date,
	to_char(start_time, 'HH24:MI') AS start_time,
	to_char(end_time, 'HH24:MI') AS end_time,
	session_type, notes, status, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// hasOverlap reports whether the trainer already has a non-cancelled session
// on the date whose interval intersects [start, end). excludeID skips the
// session being rescheduled; pass 0 for a new booking.
func hasOverlap(ctx context.Context, tx *sqlx.Tx, trainerID int, date, start, end string, excludeID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM training_sessions
			WHERE trainer_id = $1
			  AND session_date = $2
			  AND status != 'cancelled'
			  AND start_time < $4
			  AND end_time > $3
			  AND id != $5
		)
	`

	var exists bool
	err := tx.GetContext(ctx, &exists, query, trainerID, date, start, end, excludeID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Book inserts a scheduled session after checking the trainer's calendar.
// The trainer row is locked first so two concurrent bookings for the same
// trainer serialize; without the lock both could pass the overlap check and
// insert conflicting rows.
func (r *repository) Book(ctx context.Context, p BookParams) (*Session, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var trainerID int
	err = tx.GetContext(ctx, &trainerID, `SELECT id FROM trainers WHERE id = $1 FOR UPDATE`, p.TrainerID)
	if err != nil {
		return nil, err
	}

	conflict, err := hasOverlap(ctx, tx, p.TrainerID, p.Date, p.StartTime, p.EndTime, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrSessionConflict
	}

	query := `
		INSERT INTO training_sessions (trainer_id, member_id, session_date, start_time, end_time, session_type, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'scheduled')
		RETURNING ` + sessionColumns

	var s Session
	err = tx.GetContext(ctx, &s, query,
		p.TrainerID, p.MemberID, p.Date, p.StartTime, p.EndTime, p.SessionType, p.Notes)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions WHERE id = $1`

	var s Session
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) List(ctx context.Context, memberID, trainerID int, status Status, limit, offset int) ([]SessionWithDetails, error) {
	query := `
		SELECT
			s.id, s.trainer_id, s.member_id,
			to_char(s.session_date, 'YYYY-MM-DD') AS session_date,
			to_char(s.start_time, 'HH24:MI') AS start_time,
			to_char(s.end_time, 'HH24:MI') AS end_time,
			s.session_type, s.notes, s.status, s.created_at,
			t.first_name AS trainer_first_name,
			t.last_name AS trainer_last_name,
			m.first_name AS member_first_name,
			m.last_name AS member_last_name
		FROM training_sessions s
		JOIN trainers t ON s.trainer_id = t.id
		JOIN members m ON s.member_id = m.id
		WHERE ($1 = 0 OR s.member_id = $1)
		  AND ($2 = 0 OR s.trainer_id = $2)
		  AND ($3 = '' OR s.status = $3)
		ORDER BY s.session_date DESC, s.start_time DESC
		LIMIT $4 OFFSET $5
	`

	var sessions []SessionWithDetails
	err := r.db.SelectContext(ctx, &sessions, query, memberID, trainerID, string(status), limit, offset)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) Count(ctx context.Context, memberID, trainerID int, status Status) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM training_sessions
		WHERE ($1 = 0 OR member_id = $1)
		  AND ($2 = 0 OR trainer_id = $2)
		  AND ($3 = '' OR status = $3)
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, memberID, trainerID, string(status))
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Update applies a partial update. When the date or interval changes the
// conflict check runs again under the trainer lock, excluding the session's
// own row.
func (r *repository) Update(ctx context.Context, id int, req UpdateRequest) (*Session, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current Session
	err = tx.GetContext(ctx, &current,
		`SELECT `+sessionColumns+` FROM training_sessions WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if req.Date != nil {
		current.SessionDate = *req.Date
	}
	if req.StartTime != nil {
		current.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		current.EndTime = *req.EndTime
	}
	if req.SessionType != nil {
		current.SessionType = *req.SessionType
	}
	if req.Notes != nil {
		current.Notes = req.Notes
	}

	if req.Reschedules() {
		var trainerID int
		err = tx.GetContext(ctx, &trainerID, `SELECT id FROM trainers WHERE id = $1 FOR UPDATE`, current.TrainerID)
		if err != nil {
			return nil, err
		}

		conflict, err := hasOverlap(ctx, tx, current.TrainerID, current.SessionDate, current.StartTime, current.EndTime, id)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrSessionConflict
		}
	}

	query := `
		UPDATE training_sessions
		SET session_date = $2, start_time = $3, end_time = $4, session_type = $5, notes = $6
		WHERE id = $1
	`

	_, err = tx.ExecContext(ctx, query,
		id, current.SessionDate, current.StartTime, current.EndTime, current.SessionType, current.Notes)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &current, nil
}

// Cancel is idempotent: cancelling an already-cancelled session succeeds.
// Completed and no-show sessions are terminal and stay as they are.
func (r *repository) Cancel(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE training_sessions SET status = 'cancelled' WHERE id = $1 AND status = 'scheduled'`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		return nil
	}

	var status Status
	err = r.db.GetContext(ctx, &status, `SELECT status FROM training_sessions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}

	if status == StatusCancelled {
		return nil
	}

	return ErrSessionFinished
}

func (r *repository) Complete(ctx context.Context, id int, notes string) error {
	query := `
		UPDATE training_sessions
		SET status = 'completed', notes = $2
		WHERE id = $1 AND status = 'scheduled'
	`

	result, err := r.db.ExecContext(ctx, query, id, notes)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotScheduled
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM training_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// MarkNoShows transitions every scheduled session strictly in the past.
// Rerunning it is a no-op once the rows have moved on.
func (r *repository) MarkNoShows(ctx context.Context) (int64, error) {
	query := `
		UPDATE training_sessions
		SET status = 'no-show'
		WHERE status = 'scheduled' AND session_date < CURRENT_DATE
	`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *repository) TomorrowScheduled(ctx context.Context) ([]ReminderRow, error) {
	query := `
		SELECT
			u.email,
			m.first_name,
			t.first_name || ' ' || t.last_name AS trainer_name,
			to_char(s.session_date, 'YYYY-MM-DD') AS session_date,
			to_char(s.start_time, 'HH24:MI') AS start_time
		FROM training_sessions s
		JOIN members m ON s.member_id = m.id
		JOIN users u ON m.user_id = u.id
		JOIN trainers t ON s.trainer_id = t.id
		WHERE s.status = 'scheduled' AND s.session_date = CURRENT_DATE + 1
		ORDER BY s.start_time
	`

	var rows []ReminderRow
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
