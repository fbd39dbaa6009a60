package session

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Arulthas05/gym-management-backend/internal/logger"
	"github.com/Arulthas05/gym-management-backend/internal/member"
	"github.com/Arulthas05/gym-management-backend/internal/trainer"
	"github.com/Arulthas05/gym-management-backend/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

// Mock repositories
type MockSessionRepo struct{ mock.Mock }
type MockTrainerStore struct{ mock.Mock }
type MockMemberRepo struct{ mock.Mock }
type MockNotifier struct{ mock.Mock }

func (m *MockSessionRepo) Book(ctx context.Context, p BookParams) (*Session, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionRepo) GetByID(ctx context.Context, id int) (*Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionRepo) List(ctx context.Context, memberID, trainerID int, status Status, limit, offset int) ([]SessionWithDetails, error) {
	args := m.Called(ctx, memberID, trainerID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SessionWithDetails), args.Error(1)
}

func (m *MockSessionRepo) Count(ctx context.Context, memberID, trainerID int, status Status) (int, error) {
	args := m.Called(ctx, memberID, trainerID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionRepo) Update(ctx context.Context, id int, req UpdateRequest) (*Session, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionRepo) Cancel(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionRepo) Complete(ctx context.Context, id int, notes string) error {
	return m.Called(ctx, id, notes).Error(0)
}

func (m *MockSessionRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionRepo) MarkNoShows(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepo) TomorrowScheduled(ctx context.Context) ([]ReminderRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReminderRow), args.Error(1)
}

func (m *MockTrainerStore) GetByID(ctx context.Context, id int) (*trainer.Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trainer.Trainer), args.Error(1)
}

func (m *MockTrainerStore) GetAvailable(ctx context.Context, id int) (*trainer.Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trainer.Trainer), args.Error(1)
}

func (m *MockMemberRepo) Create(ctx context.Context, userID int, firstName, lastName, phone string) (*member.Member, error) {
	args := m.Called(ctx, userID, firstName, lastName, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) GetByID(ctx context.Context, id int) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) GetByUserID(ctx context.Context, userID int) (*member.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) GetWithEmail(ctx context.Context, id int) (*member.MemberWithEmail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.MemberWithEmail), args.Error(1)
}

func (m *MockMemberRepo) List(ctx context.Context, search string, limit, offset int) ([]member.MemberWithEmail, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]member.MemberWithEmail), args.Error(1)
}

func (m *MockMemberRepo) Count(ctx context.Context, search string) (int, error) {
	args := m.Called(ctx, search)
	return args.Int(0), args.Error(1)
}

func (m *MockMemberRepo) Update(ctx context.Context, id int, req member.UpdateRequest, bmi *float64) error {
	return m.Called(ctx, id, req, bmi).Error(0)
}

func (m *MockMemberRepo) SetQRCode(ctx context.Context, id int, qrPath string) error {
	return m.Called(ctx, id, qrPath).Error(0)
}

func (m *MockMemberRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockNotifier) SendSessionConfirmation(ctx context.Context, email, name, trainerName, date, startTime string) error {
	return m.Called(ctx, email, name, trainerName, date, startTime).Error(0)
}

func (m *MockNotifier) SendSessionReminder(ctx context.Context, email, name, trainerName, date, startTime string) error {
	return m.Called(ctx, email, name, trainerName, date, startTime).Error(0)
}

func TestService_Book(t *testing.T) {
	availableTrainer := &trainer.Trainer{ID: 3, FirstName: "Sam", LastName: "Perera", IsAvailable: true}

	tests := []struct {
		name       string
		userID     int
		role       string
		req        BookRequest
		setupMocks func(*MockSessionRepo, *MockTrainerStore, *MockMemberRepo, *MockNotifier)
		wantErr    error
	}{
		{
			name:   "member books own session",
			userID: 10,
			role:   user.RoleMember,
			req:    BookRequest{TrainerID: 3, Date: "2026-09-15", StartTime: "09:00", EndTime: "10:00"},
			setupMocks: func(sr *MockSessionRepo, tr *MockTrainerStore, mr *MockMemberRepo, n *MockNotifier) {
				mr.On("GetByUserID", mock.Anything, 10).Return(&member.Member{ID: 7, UserID: 10}, nil)
				tr.On("GetAvailable", mock.Anything, 3).Return(availableTrainer, nil)
				sr.On("Book", mock.Anything, BookParams{
					TrainerID: 3, MemberID: 7, Date: "2026-09-15",
					StartTime: "09:00", EndTime: "10:00", SessionType: "personal",
				}).Return(&Session{ID: 1, TrainerID: 3, MemberID: 7, SessionDate: "2026-09-15", StartTime: "09:00", EndTime: "10:00", Status: StatusScheduled}, nil)
				mr.On("GetWithEmail", mock.Anything, 7).Return(&member.MemberWithEmail{
					Member: member.Member{ID: 7, FirstName: "Nina"}, Email: "nina@example.com",
				}, nil)
				n.On("SendSessionConfirmation", mock.Anything, "nina@example.com", "Nina", "Sam Perera", "2026-09-15", "09:00").Return(nil)
			},
		},
		{
			name:   "overlapping slot rejected",
			userID: 10,
			role:   user.RoleMember,
			req:    BookRequest{TrainerID: 3, Date: "2026-09-15", StartTime: "09:30", EndTime: "10:30"},
			setupMocks: func(sr *MockSessionRepo, tr *MockTrainerStore, mr *MockMemberRepo, n *MockNotifier) {
				mr.On("GetByUserID", mock.Anything, 10).Return(&member.Member{ID: 7}, nil)
				tr.On("GetAvailable", mock.Anything, 3).Return(availableTrainer, nil)
				sr.On("Book", mock.Anything, mock.Anything).Return(nil, ErrSessionConflict)
			},
			wantErr: ErrSessionConflict,
		},
		{
			name:   "trainer unavailable",
			userID: 10,
			role:   user.RoleMember,
			req:    BookRequest{TrainerID: 9, Date: "2026-09-15", StartTime: "09:00", EndTime: "10:00"},
			setupMocks: func(sr *MockSessionRepo, tr *MockTrainerStore, mr *MockMemberRepo, n *MockNotifier) {
				mr.On("GetByUserID", mock.Anything, 10).Return(&member.Member{ID: 7}, nil)
				tr.On("GetAvailable", mock.Anything, 9).Return(nil, errors.New("sql: no rows in result set"))
			},
			wantErr: ErrTrainerUnavailable,
		},
		{
			name:       "end before start rejected",
			userID:     10,
			role:       user.RoleMember,
			req:        BookRequest{TrainerID: 3, Date: "2026-09-15", StartTime: "10:00", EndTime: "09:00"},
			setupMocks: func(sr *MockSessionRepo, tr *MockTrainerStore, mr *MockMemberRepo, n *MockNotifier) {},
			wantErr:    ErrInvalidSchedule,
		},
		{
			name:       "bad time format rejected",
			userID:     10,
			role:       user.RoleMember,
			req:        BookRequest{TrainerID: 3, Date: "2026-09-15", StartTime: "9:00", EndTime: "10:00"},
			setupMocks: func(sr *MockSessionRepo, tr *MockTrainerStore, mr *MockMemberRepo, n *MockNotifier) {},
			wantErr:    ErrInvalidSchedule,
		},
		{
			name:   "admin books for named member",
			userID: 1,
			role:   user.RoleAdmin,
			req:    BookRequest{TrainerID: 3, MemberID: 7, Date: "2026-09-15", StartTime: "10:00", EndTime: "11:00"},
			setupMocks: func(sr *MockSessionRepo, tr *MockTrainerStore, mr *MockMemberRepo, n *MockNotifier) {
				mr.On("GetByID", mock.Anything, 7).Return(&member.Member{ID: 7}, nil)
				tr.On("GetAvailable", mock.Anything, 3).Return(availableTrainer, nil)
				sr.On("Book", mock.Anything, mock.Anything).Return(&Session{ID: 2, MemberID: 7, SessionDate: "2026-09-15", StartTime: "10:00", EndTime: "11:00", Status: StatusScheduled}, nil)
				mr.On("GetWithEmail", mock.Anything, 7).Return(nil, errors.New("no email"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := new(MockSessionRepo)
			tr := new(MockTrainerStore)
			mr := new(MockMemberRepo)
			n := new(MockNotifier)

			tt.setupMocks(sr, tr, mr, n)

			svc := NewService(sr, tr, mr, n)
			got, err := svc.Book(context.Background(), tt.userID, tt.role, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, got)
				assert.Equal(t, StatusScheduled, got.Status)
			}
			sr.AssertExpectations(t)
		})
	}
}

func TestService_Update(t *testing.T) {
	strp := func(s string) *string { return &s }
	stored := &Session{ID: 5, TrainerID: 3, MemberID: 7, SessionDate: "2026-09-15", StartTime: "09:00", EndTime: "10:00", Status: StatusScheduled}

	t.Run("start moved past stored end is rejected", func(t *testing.T) {
		sr := new(MockSessionRepo)
		sr.On("GetByID", mock.Anything, 5).Return(stored, nil)

		svc := NewService(sr, new(MockTrainerStore), new(MockMemberRepo), new(MockNotifier))
		_, err := svc.Update(context.Background(), 5, UpdateRequest{StartTime: strp("10:30")})
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		sr.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("start equal to stored end is rejected", func(t *testing.T) {
		sr := new(MockSessionRepo)
		sr.On("GetByID", mock.Anything, 5).Return(stored, nil)

		svc := NewService(sr, new(MockTrainerStore), new(MockMemberRepo), new(MockNotifier))
		_, err := svc.Update(context.Background(), 5, UpdateRequest{StartTime: strp("10:00")})
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		sr.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("valid start-only change merges against stored end", func(t *testing.T) {
		sr := new(MockSessionRepo)
		req := UpdateRequest{StartTime: strp("09:30")}
		sr.On("GetByID", mock.Anything, 5).Return(stored, nil)
		sr.On("Update", mock.Anything, 5, req).Return(&Session{ID: 5, StartTime: "09:30", EndTime: "10:00"}, nil)

		svc := NewService(sr, new(MockTrainerStore), new(MockMemberRepo), new(MockNotifier))
		updated, err := svc.Update(context.Background(), 5, req)
		assert.NoError(t, err)
		assert.Equal(t, "09:30", updated.StartTime)
		sr.AssertExpectations(t)
	})

	t.Run("malformed time is rejected", func(t *testing.T) {
		sr := new(MockSessionRepo)
		sr.On("GetByID", mock.Anything, 5).Return(stored, nil)

		svc := NewService(sr, new(MockTrainerStore), new(MockMemberRepo), new(MockNotifier))
		_, err := svc.Update(context.Background(), 5, UpdateRequest{EndTime: strp("9:00")})
		assert.ErrorIs(t, err, ErrInvalidSchedule)
		sr.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("notes-only change skips the schedule check", func(t *testing.T) {
		sr := new(MockSessionRepo)
		req := UpdateRequest{Notes: strp("bring resistance bands")}
		sr.On("Update", mock.Anything, 5, req).Return(stored, nil)

		svc := NewService(sr, new(MockTrainerStore), new(MockMemberRepo), new(MockNotifier))
		_, err := svc.Update(context.Background(), 5, req)
		assert.NoError(t, err)
		sr.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		sr.AssertExpectations(t)
	})
}

func TestService_Cancel(t *testing.T) {
	t.Run("member cancels own session", func(t *testing.T) {
		sr := new(MockSessionRepo)
		mr := new(MockMemberRepo)
		sr.On("GetByID", mock.Anything, 5).Return(&Session{ID: 5, MemberID: 7, Status: StatusScheduled}, nil)
		mr.On("GetByUserID", mock.Anything, 10).Return(&member.Member{ID: 7}, nil)
		sr.On("Cancel", mock.Anything, 5).Return(nil)

		svc := NewService(sr, new(MockTrainerStore), mr, new(MockNotifier))
		err := svc.Cancel(context.Background(), 5, 10, user.RoleMember)
		assert.NoError(t, err)
		sr.AssertExpectations(t)
	})

	t.Run("member cannot cancel another member's session", func(t *testing.T) {
		sr := new(MockSessionRepo)
		mr := new(MockMemberRepo)
		sr.On("GetByID", mock.Anything, 5).Return(&Session{ID: 5, MemberID: 99}, nil)
		mr.On("GetByUserID", mock.Anything, 10).Return(&member.Member{ID: 7}, nil)

		svc := NewService(sr, new(MockTrainerStore), mr, new(MockNotifier))
		err := svc.Cancel(context.Background(), 5, 10, user.RoleMember)
		assert.ErrorIs(t, err, ErrNotSessionOwner)
		sr.AssertNotCalled(t, "Cancel", mock.Anything, 5)
	})

	t.Run("admin cancels without ownership check", func(t *testing.T) {
		sr := new(MockSessionRepo)
		sr.On("Cancel", mock.Anything, 5).Return(nil)

		svc := NewService(sr, new(MockTrainerStore), new(MockMemberRepo), new(MockNotifier))
		err := svc.Cancel(context.Background(), 5, 1, user.RoleAdmin)
		assert.NoError(t, err)
	})

	t.Run("finished session cannot be cancelled", func(t *testing.T) {
		sr := new(MockSessionRepo)
		sr.On("Cancel", mock.Anything, 8).Return(ErrSessionFinished)

		svc := NewService(sr, new(MockTrainerStore), new(MockMemberRepo), new(MockNotifier))
		err := svc.Cancel(context.Background(), 8, 1, user.RoleAdmin)
		assert.ErrorIs(t, err, ErrSessionFinished)
	})
}

func TestService_MarkNoShows(t *testing.T) {
	sr := new(MockSessionRepo)
	sr.On("MarkNoShows", mock.Anything).Return(int64(3), nil)

	svc := NewService(sr, new(MockTrainerStore), new(MockMemberRepo), new(MockNotifier))
	rows, err := svc.MarkNoShows(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), rows)

	// A second sweep with nothing left is a no-op, not an error.
	sr2 := new(MockSessionRepo)
	sr2.On("MarkNoShows", mock.Anything).Return(int64(0), nil)
	svc2 := NewService(sr2, new(MockTrainerStore), new(MockMemberRepo), new(MockNotifier))
	rows, err = svc2.MarkNoShows(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, rows)
}

func TestService_SendSessionReminders(t *testing.T) {
	sr := new(MockSessionRepo)
	n := new(MockNotifier)
	sr.On("TomorrowScheduled", mock.Anything).Return([]ReminderRow{
		{Email: "a@example.com", FirstName: "Amal", TrainerName: "Sam Perera", SessionDate: "2026-09-16", StartTime: "09:00"},
		{Email: "b@example.com", FirstName: "Bimal", TrainerName: "Sam Perera", SessionDate: "2026-09-16", StartTime: "11:00"},
	}, nil)
	n.On("SendSessionReminder", mock.Anything, "a@example.com", "Amal", "Sam Perera", "2026-09-16", "09:00").Return(nil)
	n.On("SendSessionReminder", mock.Anything, "b@example.com", "Bimal", "Sam Perera", "2026-09-16", "11:00").Return(errors.New("smtp down"))

	svc := NewService(sr, new(MockTrainerStore), new(MockMemberRepo), n)
	// One failed send does not fail the sweep.
	err := svc.SendSessionReminders(context.Background())
	assert.NoError(t, err)
	n.AssertExpectations(t)
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, validateSchedule("2026-09-15", "09:00", "10:00"))
	assert.ErrorIs(t, validateSchedule("15-09-2026", "09:00", "10:00"), ErrInvalidSchedule)
	assert.ErrorIs(t, validateSchedule("2026-09-15", "09:00", "09:00"), ErrInvalidSchedule)
	assert.ErrorIs(t, validateSchedule("2026-09-15", "24:00", "25:00"), ErrInvalidSchedule)
}
