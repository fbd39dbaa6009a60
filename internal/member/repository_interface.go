package member

import "context"

type Repository interface {
	Create(ctx context.Context, userID int, firstName, lastName, phone string) (*Member, error)
	GetByID(ctx context.Context, id int) (*Member, error)
	GetByUserID(ctx context.Context, userID int) (*Member, error)
	GetWithEmail(ctx context.Context, id int) (*MemberWithEmail, error)
	List(ctx context.Context, search string, limit, offset int) ([]MemberWithEmail, error)
	Count(ctx context.Context, search string) (int, error)
	Update(ctx context.Context, id int, req UpdateRequest, bmi *float64) error
	SetQRCode(ctx context.Context, id int, qrPath string) error
	Delete(ctx context.Context, id int) error
}
