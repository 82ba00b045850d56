package usecase_test

import (
	"context"
	"strings"
	"testing"

	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/internal/usecase"
	"go-talent-marketplace/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, "admin1")
	return context.WithValue(ctx, domain.KeyUserRole, domain.RoleAdmin)
}

func newAdminUC(repo *MockProfileRepo) domain.AdminUsecase {
	validate := validator.New()
	validation.RegisterValidators(validate)
	return usecase.NewAdminUsecase(repo, validate)
}

func TestAdminPrivilege(t *testing.T) {
	repo := new(MockProfileRepo)
	uc := newAdminUC(repo)

	t.Run("Should fail if role is not admin", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), domain.KeyUserRole, domain.RoleCandidate)
		_, err := uc.ListProfiles(ctx, domain.StatusSubmitted, 20, 0)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Admin access required")
	})

	t.Run("Should fail safe if role is nil", func(t *testing.T) {
		err := uc.Review(context.Background(), "user1", &domain.ReviewRequest{Status: domain.StatusInReview})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Admin access required")
	})
}

func TestAdminListProfiles(t *testing.T) {
	t.Run("Should default to the submitted queue", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newAdminUC(repo)
		repo.On("ListByStatus", mock.Anything, domain.StatusSubmitted, 20, 0).
			Return([]domain.CandidateProfile{}, nil)

		_, err := uc.ListProfiles(adminCtx(), "", 20, 0)
		assert.NoError(t, err)
		repo.AssertCalled(t, "ListByStatus", mock.Anything, domain.StatusSubmitted, 20, 0)
	})

	t.Run("Should reject an unknown status", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newAdminUC(repo)

		_, err := uc.ListProfiles(adminCtx(), "PENDING", 20, 0)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown profile status")
	})
}

func TestAdminReview(t *testing.T) {
	profileIn := func(status domain.ProfileStatus) *domain.CandidateProfile {
		return &domain.CandidateProfile{UserID: "user1", Status: status}
	}

	t.Run("Should allow legal transitions", func(t *testing.T) {
		cases := []struct {
			from domain.ProfileStatus
			to   domain.ProfileStatus
		}{
			{domain.StatusSubmitted, domain.StatusInReview},
			{domain.StatusInReview, domain.StatusValidated},
			{domain.StatusInReview, domain.StatusRejected},
			{domain.StatusRejected, domain.StatusInReview},
			{domain.StatusValidated, domain.StatusArchived},
		}
		for _, tc := range cases {
			repo := new(MockProfileRepo)
			uc := newAdminUC(repo)
			repo.On("GetByUserID", mock.Anything, "user1").Return(profileIn(tc.from), nil)
			repo.On("UpdateStatus", mock.Anything, "user1", tc.to, (*string)(nil)).Return(nil)

			err := uc.Review(adminCtx(), "user1", &domain.ReviewRequest{Status: tc.to})
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		}
	})

	t.Run("Should reject illegal transitions", func(t *testing.T) {
		cases := []struct {
			from domain.ProfileStatus
			to   domain.ProfileStatus
		}{
			{domain.StatusDraft, domain.StatusValidated},
			{domain.StatusSubmitted, domain.StatusValidated}, // must pass through review
			{domain.StatusValidated, domain.StatusRejected},
			{domain.StatusArchived, domain.StatusInReview},
		}
		for _, tc := range cases {
			repo := new(MockProfileRepo)
			uc := newAdminUC(repo)
			repo.On("GetByUserID", mock.Anything, "user1").Return(profileIn(tc.from), nil)

			err := uc.Review(adminCtx(), "user1", &domain.ReviewRequest{Status: tc.to})
			assert.Error(t, err, "%s -> %s", tc.from, tc.to)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("Should cap review notes at 2000 characters", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newAdminUC(repo)
		longNotes := strings.Repeat("x", 2001)

		err := uc.Review(adminCtx(), "user1", &domain.ReviewRequest{
			Status: domain.StatusInReview,
			Notes:  &longNotes,
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Validation failed")
		repo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	})

	t.Run("Should 404 on a missing profile", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newAdminUC(repo)
		repo.On("GetByUserID", mock.Anything, "ghost").Return(nil, nil)

		err := uc.Review(adminCtx(), "ghost", &domain.ReviewRequest{Status: domain.StatusInReview})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
