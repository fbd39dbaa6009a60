package member

import (
	"context"

	"github.com/Arulthas05/gym-management-backend/internal/qr"
)

type Service interface {
	Get(ctx context.Context, id int) (*MemberWithEmail, error)
	GetByUserID(ctx context.Context, userID int) (*Member, error)
	List(ctx context.Context, search string, page, limit int) ([]MemberWithEmail, int, error)
	Update(ctx context.Context, id int, req UpdateRequest) error
	QRCode(ctx context.Context, id int) (string, string, error)
}

type service struct {
	repo Repository
	qr   *qr.Generator
}

func NewService(repo Repository, qrGen *qr.Generator) Service {
	return &service{repo: repo, qr: qrGen}
}

func (s *service) Get(ctx context.Context, id int) (*MemberWithEmail, error) {
	return s.repo.GetWithEmail(ctx, id)
}

func (s *service) GetByUserID(ctx context.Context, userID int) (*Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) List(ctx context.Context, search string, page, limit int) ([]MemberWithEmail, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.repo.Count(ctx, search)
	if err != nil {
		return nil, 0, err
	}

	members, err := s.repo.List(ctx, search, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

func (s *service) Update(ctx context.Context, id int, req UpdateRequest) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrMemberNotFound
	}

	// Recompute BMI when either measurement changes.
	var bmi *float64
	height := current.HeightCM
	weight := current.WeightKG
	if req.HeightCM != nil {
		height = req.HeightCM
	}
	if req.WeightKG != nil {
		weight = req.WeightKG
	}
	if height != nil && weight != nil {
		v := CalculateBMI(*weight, *height)
		bmi = &v
	}

	return s.repo.Update(ctx, id, req, bmi)
}

// QRCode returns the member's check-in payload and PNG path, generating and
// persisting them on first use.
func (s *service) QRCode(ctx context.Context, id int) (string, string, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", "", ErrMemberNotFound
	}

	payload, path, err := s.qr.GenerateMemberCode(m.ID, m.UserID)
	if err != nil {
		return "", "", err
	}

	if m.QRCode == nil || *m.QRCode == "" {
		if err := s.repo.SetQRCode(ctx, id, path); err != nil {
			return "", "", err
		}
	}

	return payload, path, nil
}
