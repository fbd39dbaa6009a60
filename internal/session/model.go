package session

import "time"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Session times are kept as zero-padded HH:MM strings; with that encoding
// string comparison orders them correctly, so the overlap checks can run
// entirely in SQL.
type Session struct {
	ID          int       `db:"id" json:"id"`
	TrainerID   int       `db:"trainer_id" json:"trainer_id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	SessionDate string    `db:"session_date" json:"session_date"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	SessionType string    `db:"session_type" json:"session_type"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type SessionWithDetails struct {
	Session
	TrainerFirstName string `db:"trainer_first_name" json:"trainer_first_name"`
	TrainerLastName  string `db:"trainer_last_name" json:"trainer_last_name"`
	MemberFirstName  string `db:"member_first_name" json:"member_first_name"`
	MemberLastName   string `db:"member_last_name" json:"member_last_name"`
}

// ReminderRow carries what the next-day reminder email needs.
type ReminderRow struct {
	Email       string `db:"email"`
	FirstName   string `db:"first_name"`
	TrainerName string `db:"trainer_name"`
	SessionDate string `db:"session_date"`
	StartTime   string `db:"start_time"`
}

type BookRequest struct {
	TrainerID   int    `json:"trainerId" binding:"required"`
	MemberID    int    `json:"memberId"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	SessionType string `json:"sessionType"`
	Notes       string `json:"notes"`
}

type UpdateRequest struct {
	Date        *string `json:"date"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	SessionType *string `json:"sessionType"`
	Notes       *string `json:"notes"`
}

// Reschedules reports whether the update touches the booked interval and
// therefore needs a fresh conflict check.
func (r UpdateRequest) Reschedules() bool {
	return r.Date != nil || r.StartTime != nil || r.EndTime != nil
}
