package session

import "context"

type BookParams struct {
	TrainerID   int
	MemberID    int
	Date        string
	StartTime   string
	EndTime     string
	SessionType string
	Notes       *string
}

type Repository interface {
	Book(ctx context.Context, p BookParams) (*Session, error)
	GetByID(ctx context.Context, id int) (*Session, error)
	List(ctx context.Context, memberID, trainerID int, status Status, limit, offset int) ([]SessionWithDetails, error)
	Count(ctx context.Context, memberID, trainerID int, status Status) (int, error)
	Update(ctx context.Context, id int, req UpdateRequest) (*Session, error)
	Cancel(ctx context.Context, id int) error
	Complete(ctx context.Context, id int, notes string) error
	Delete(ctx context.Context, id int) error

	MarkNoShows(ctx context.Context) (int64, error)
	TomorrowScheduled(ctx context.Context) ([]ReminderRow, error)
}
