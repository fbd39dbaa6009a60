package attendance

import "context"

type Repository interface {
	CheckIn(ctx context.Context, memberID int, method string) (*Attendance, error)
	CheckOut(ctx context.Context, memberID int) (*Attendance, error)
	ListToday(ctx context.Context) ([]AttendanceWithMember, error)
	TodayStats(ctx context.Context) (*TodayStats, error)
	MemberHistory(ctx context.Context, memberID, limit, offset int) ([]Attendance, error)
	CountMemberHistory(ctx context.Context, memberID int) (int, error)
	MemberStats(ctx context.Context, memberID int) (*MemberStats, error)
}
