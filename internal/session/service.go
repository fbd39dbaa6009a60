package session

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/Arulthas05/gym-management-backend/internal/logger"
	"github.com/Arulthas05/gym-management-backend/internal/member"
	"github.com/Arulthas05/gym-management-backend/internal/metrics"
	"github.com/Arulthas05/gym-management-backend/internal/trainer"
	"github.com/Arulthas05/gym-management-backend/internal/user"
)

var (
	ErrTrainerUnavailable = errors.New("trainer not found or not available")
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvalidSchedule    = errors.New("invalid session date or time range")
	ErrNotSessionOwner    = errors.New("can only cancel own sessions")
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TrainerStore is the slice of the trainer repository the booking engine needs.
type TrainerStore interface {
	GetByID(ctx context.Context, id int) (*trainer.Trainer, error)
	GetAvailable(ctx context.Context, id int) (*trainer.Trainer, error)
}

// Notifier is satisfied by email.Service.
type Notifier interface {
	SendSessionConfirmation(ctx context.Context, email, name, trainerName, date, startTime string) error
	SendSessionReminder(ctx context.Context, email, name, trainerName, date, startTime string) error
}

type Service interface {
	Book(ctx context.Context, userID int, role string, req BookRequest) (*Session, error)
	Get(ctx context.Context, id int) (*Session, error)
	List(ctx context.Context, memberID, trainerID int, status Status, page, limit int) ([]SessionWithDetails, int, error)
	Update(ctx context.Context, id int, req UpdateRequest) (*Session, error)
	Cancel(ctx context.Context, id, userID int, role string) error
	Complete(ctx context.Context, id int, notes string) error
	Delete(ctx context.Context, id int) error

	MarkNoShows(ctx context.Context) (int64, error)
	SendSessionReminders(ctx context.Context) error
}

type service struct {
	repo         Repository
	trainerStore TrainerStore
	memberRepo   member.Repository
	notifier     Notifier
}

func NewService(repo Repository, trainerStore TrainerStore, memberRepo member.Repository, notifier Notifier) Service {
	return &service{
		repo:         repo,
		trainerStore: trainerStore,
		memberRepo:   memberRepo,
		notifier:     notifier,
	}
}

func validateSchedule(date, start, end string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidSchedule
	}
	if !timePattern.MatchString(start) || !timePattern.MatchString(end) {
		return ErrInvalidSchedule
	}
	// Zero-padded HH:MM compares correctly as a string.
	if start >= end {
		return ErrInvalidSchedule
	}
	return nil
}

func (s *service) Book(ctx context.Context, userID int, role string, req BookRequest) (*Session, error) {
	if err := validateSchedule(req.Date, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	// Members always book for themselves; admins name the member explicitly.
	memberID := req.MemberID
	if role == user.RoleMember || memberID == 0 {
		m, err := s.memberRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, ErrMemberNotFound
		}
		memberID = m.ID
	} else {
		if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
			return nil, ErrMemberNotFound
		}
	}

	t, err := s.trainerStore.GetAvailable(ctx, req.TrainerID)
	if err != nil {
		return nil, ErrTrainerUnavailable
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	sessionType := req.SessionType
	if sessionType == "" {
		sessionType = "personal"
	}

	booked, err := s.repo.Book(ctx, BookParams{
		TrainerID:   req.TrainerID,
		MemberID:    memberID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		SessionType: sessionType,
		Notes:       notes,
	})
	if err != nil {
		if errors.Is(err, ErrSessionConflict) {
			metrics.RecordSessionBooked("conflict")
		}
		return nil, err
	}

	metrics.RecordSessionBooked("success")

	// Confirmation is fire-and-forget; the booking stands either way.
	if withEmail, err := s.memberRepo.GetWithEmail(ctx, memberID); err == nil {
		trainerName := t.FirstName + " " + t.LastName
		if err := s.notifier.SendSessionConfirmation(ctx, withEmail.Email, withEmail.FirstName, trainerName, booked.SessionDate, booked.StartTime); err != nil {
			logger.Errorf("Session confirmation email failed for member %d: %v", memberID, err)
		}
	}

	return booked, nil
}

func (s *service) Get(ctx context.Context, id int) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, memberID, trainerID int, status Status, page, limit int) ([]SessionWithDetails, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.repo.Count(ctx, memberID, trainerID, status)
	if err != nil {
		return nil, 0, err
	}

	sessions, err := s.repo.List(ctx, memberID, trainerID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (s *service) Update(ctx context.Context, id int, req UpdateRequest) (*Session, error) {
	// Validate the interval as it will exist after the merge; a lone
	// startTime moved past the stored endTime is just as invalid as a
	// bad pair sent together.
	if req.Date != nil || req.StartTime != nil || req.EndTime != nil {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		date := current.SessionDate
		start := current.StartTime
		end := current.EndTime
		if req.Date != nil {
			date = *req.Date
		}
		if req.StartTime != nil {
			start = *req.StartTime
		}
		if req.EndTime != nil {
			end = *req.EndTime
		}

		if err := validateSchedule(date, start, end); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, id, req)
}

func (s *service) Cancel(ctx context.Context, id, userID int, role string) error {
	if role == user.RoleMember {
		booked, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		m, err := s.memberRepo.GetByUserID(ctx, userID)
		if err != nil || m.ID != booked.MemberID {
			return ErrNotSessionOwner
		}
	}

	if err := s.repo.Cancel(ctx, id); err != nil {
		return err
	}

	metrics.RecordSessionCancellation()
	return nil
}

func (s *service) Complete(ctx context.Context, id int, notes string) error {
	return s.repo.Complete(ctx, id, notes)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// MarkNoShows sweeps past-due scheduled sessions into no-show. Idempotent.
func (s *service) MarkNoShows(ctx context.Context) (int64, error) {
	rows, err := s.repo.MarkNoShows(ctx)
	if err != nil {
		return 0, err
	}
	metrics.RecordSweep("mark_no_shows", rows)
	return rows, nil
}

// SendSessionReminders emails every member with a scheduled session tomorrow.
func (s *service) SendSessionReminders(ctx context.Context) error {
	rows, err := s.repo.TomorrowScheduled(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err := s.notifier.SendSessionReminder(ctx, row.Email, row.FirstName, row.TrainerName, row.SessionDate, row.StartTime); err != nil {
			logger.Errorf("Session reminder failed for %s: %v", row.Email, err)
			continue
		}
	}

	if len(rows) > 0 {
		logger.Infof("Sent %d session reminders", len(rows))
	}

	return nil
}
