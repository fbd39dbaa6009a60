package attendance

import "time"

const (
	MethodQR     = "qr"
	MethodManual = "manual"
	MethodCard   = "card"
)

type Attendance struct {
	ID           int        `db:"id" json:"id"`
	MemberID     int        `db:"member_id" json:"member_id"`
	Date         string     `db:"attendance_date" json:"date"`
	CheckInTime  time.Time  `db:"check_in_time" json:"check_in_time"`
	CheckOutTime *time.Time `db:"check_out_time" json:"check_out_time,omitempty"`
	Method       string     `db:"method" json:"method"`
}

type AttendanceWithMember struct {
	Attendance
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// TodayStats is the gate's occupancy snapshot.
type TodayStats struct {
	TotalVisits    int `db:"total_visits" json:"total_visits"`
	CurrentlyInGym int `db:"currently_in_gym" json:"currently_in_gym"`
}

// MemberStats summarizes a member's visit history.
type MemberStats struct {
	TotalVisits int     `db:"total_visits" json:"total_visits"`
	ThisMonth   int     `db:"this_month" json:"this_month"`
	AvgMinutes  float64 `db:"avg_minutes" json:"avg_minutes"`
}

type CheckInRequest struct {
	MemberID int    `json:"memberId"`
	Method   string `json:"method"`
}

type QRCheckInRequest struct {
	QRData string `json:"qrData" binding:"required"`
}
