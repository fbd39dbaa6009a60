package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/Arulthas05/gym-management-backend/internal/member"
	"github.com/Arulthas05/gym-management-backend/internal/membership"
	"github.com/Arulthas05/gym-management-backend/internal/metrics"
	"github.com/Arulthas05/gym-management-backend/internal/qr"
)

var (
	ErrMembershipInvalid = errors.New("no active membership")
	ErrMemberNotFound    = errors.New("member not found")
	ErrInvalidMethod     = errors.New("invalid check-in method")
)

// MembershipStore is the slice of the membership repository the gate needs.
type MembershipStore interface {
	GetActiveForMember(ctx context.Context, memberID int) (*membership.Membership, error)
}

type Service interface {
	CheckIn(ctx context.Context, memberID int, method string) (*Attendance, error)
	CheckOut(ctx context.Context, memberID int) (*Attendance, error)
	QRCheckIn(ctx context.Context, qrData string) (*Attendance, error)
	Today(ctx context.Context) ([]AttendanceWithMember, *TodayStats, error)
	MemberHistory(ctx context.Context, memberID, page, limit int) ([]Attendance, *MemberStats, int, error)
}

type service struct {
	repo        Repository
	memberRepo  member.Repository
	memberships MembershipStore
}

func NewService(repo Repository, memberRepo member.Repository, memberships MembershipStore) Service {
	return &service{
		repo:        repo,
		memberRepo:  memberRepo,
		memberships: memberships,
	}
}

// CheckIn opens an attendance row after verifying the member holds an
// active membership that has not passed its end date. The expiry sweep
// only runs once a day, so the date is rechecked here.
func (s *service) CheckIn(ctx context.Context, memberID int, method string) (*Attendance, error) {
	switch method {
	case MethodQR, MethodManual, MethodCard:
	case "":
		method = MethodManual
	default:
		return nil, ErrInvalidMethod
	}

	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, ErrMemberNotFound
	}

	active, err := s.memberships.GetActiveForMember(ctx, memberID)
	if err != nil {
		metrics.RecordCheckIn(method, "no_membership")
		return nil, ErrMembershipInvalid
	}

	today := time.Now().Format("2006-01-02")
	if active.EndDate < today {
		metrics.RecordCheckIn(method, "expired_membership")
		return nil, ErrMembershipInvalid
	}

	a, err := s.repo.CheckIn(ctx, memberID, method)
	if err != nil {
		if errors.Is(err, ErrAlreadyCheckedIn) {
			metrics.RecordCheckIn(method, "duplicate")
		}
		return nil, err
	}

	metrics.RecordCheckIn(method, "success")
	return a, nil
}

func (s *service) CheckOut(ctx context.Context, memberID int) (*Attendance, error) {
	return s.repo.CheckOut(ctx, memberID)
}

// QRCheckIn decodes the scanned payload, resolves the member behind it and
// delegates to the regular check-in path. Malformed payloads fail before
// any lookup happens.
func (s *service) QRCheckIn(ctx context.Context, qrData string) (*Attendance, error) {
	payload, err := qr.DecodePayload(qrData)
	if err != nil {
		metrics.RecordCheckIn(MethodQR, "bad_payload")
		return nil, err
	}

	m, err := s.memberRepo.GetByUserID(ctx, payload.UserID)
	if err != nil {
		metrics.RecordCheckIn(MethodQR, "unknown_member")
		return nil, ErrMemberNotFound
	}

	return s.CheckIn(ctx, m.ID, MethodQR)
}

func (s *service) Today(ctx context.Context) ([]AttendanceWithMember, *TodayStats, error) {
	rows, err := s.repo.ListToday(ctx)
	if err != nil {
		return nil, nil, err
	}

	stats, err := s.repo.TodayStats(ctx)
	if err != nil {
		return nil, nil, err
	}

	return rows, stats, nil
}

func (s *service) MemberHistory(ctx context.Context, memberID, page, limit int) ([]Attendance, *MemberStats, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	total, err := s.repo.CountMemberHistory(ctx, memberID)
	if err != nil {
		return nil, nil, 0, err
	}

	rows, err := s.repo.MemberHistory(ctx, memberID, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, 0, err
	}

	stats, err := s.repo.MemberStats(ctx, memberID)
	if err != nil {
		return nil, nil, 0, err
	}

	return rows, stats, total, nil
}
