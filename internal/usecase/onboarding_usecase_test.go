package usecase_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/internal/usecase"
	"go-talent-marketplace/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, userID, email string) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}

func (m *MockProfileRepo) GetFull(ctx context.Context, userID string) (*domain.FullProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FullProfile), args.Error(1)
}

func (m *MockProfileRepo) UpdateIdentity(ctx context.Context, userID string, upd *domain.ProfileUpdate) error {
	return m.Called(ctx, userID, upd).Error(0)
}

func (m *MockProfileRepo) AdvanceStep(ctx context.Context, userID string, completedThrough int) error {
	return m.Called(ctx, userID, completedThrough).Error(0)
}

func (m *MockProfileRepo) ReplaceExperiences(ctx context.Context, profileID int64, items []domain.Experience) error {
	return m.Called(ctx, profileID, items).Error(0)
}

func (m *MockProfileRepo) ReplaceEducations(ctx context.Context, profileID int64, items []domain.Education) error {
	return m.Called(ctx, profileID, items).Error(0)
}

func (m *MockProfileRepo) ReplaceCertifications(ctx context.Context, profileID int64, items []domain.Certification) error {
	return m.Called(ctx, profileID, items).Error(0)
}

func (m *MockProfileRepo) ReplaceSkills(ctx context.Context, profileID int64, items []domain.Skill) error {
	return m.Called(ctx, profileID, items).Error(0)
}

func (m *MockProfileRepo) UpsertPreferences(ctx context.Context, profileID int64, prefs *domain.JobPreferences) error {
	return m.Called(ctx, profileID, prefs).Error(0)
}

func (m *MockProfileRepo) UpdateStatus(ctx context.Context, userID string, status domain.ProfileStatus, notes *string) error {
	return m.Called(ctx, userID, status, notes).Error(0)
}

func (m *MockProfileRepo) ListByStatus(ctx context.Context, status domain.ProfileStatus, limit, offset int) ([]domain.CandidateProfile, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateProfile), args.Error(1)
}

// Helpers

func ownerCtx(userID string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, userID)
}

func newOnboardingUC(repo *MockProfileRepo) domain.OnboardingUsecase {
	validate := validator.New()
	validation.RegisterValidators(validate)
	return usecase.NewOnboardingUsecase(repo, validate, nil)
}

func draftProfile(watermark int) *domain.CandidateProfile {
	return &domain.CandidateProfile{
		ID:                42,
		UserID:            "user1",
		Status:            domain.StatusDraft,
		LastStepCompleted: watermark,
	}
}

func expectState(repo *MockProfileRepo, profile *domain.CandidateProfile) {
	repo.On("GetFull", mock.Anything, profile.UserID).
		Return(&domain.FullProfile{Profile: *profile}, nil)
}

func TestOnboardingOwnership(t *testing.T) {
	repo := new(MockProfileRepo)
	uc := newOnboardingUC(repo)

	t.Run("Should fail when Context UserID does not match Argument UserID", func(t *testing.T) {
		_, err := uc.GetState(ownerCtx("user1"), "user2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only access your own onboarding")
	})

	t.Run("Should fail safely when Context UserID is nil", func(t *testing.T) {
		_, err := uc.SaveStep(context.Background(), "user1", domain.StepConsent, json.RawMessage(`{}`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "User not authenticated")
	})
}

func TestSaveStepSequencing(t *testing.T) {
	t.Run("Should reject skipping ahead of the watermark", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetByUserID", mock.Anything, "user1").Return(draftProfile(1), nil)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepExperiences, json.RawMessage(`{"experiences":[]}`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Complete the previous steps first")
		repo.AssertNotCalled(t, "AdvanceStep", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should allow redoing an earlier step without lowering the watermark", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		profile := draftProfile(5)
		repo.On("GetByUserID", mock.Anything, "user1").Return(profile, nil)
		// Redoing consent advances to at most 1; the repository keeps the
		// higher stored value
		repo.On("AdvanceStep", mock.Anything, "user1", 1).Return(nil)
		expectState(repo, profile)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepConsent,
			json.RawMessage(`{"termsAccepted":true,"privacyAccepted":true}`))
		assert.NoError(t, err)
		repo.AssertCalled(t, "AdvanceStep", mock.Anything, "user1", 1)
	})

	t.Run("Should reject an unknown step index", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.Step(99), json.RawMessage(`{}`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown onboarding step")
	})

	t.Run("Should refuse edits on a submitted profile", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		profile := draftProfile(8)
		profile.Status = domain.StatusSubmitted
		repo.On("GetByUserID", mock.Anything, "user1").Return(profile, nil)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepIdentity, json.RawMessage(`{}`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "can no longer be edited")
	})

	t.Run("Should allow edits on a rejected profile", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		profile := draftProfile(8)
		profile.Status = domain.StatusRejected
		repo.On("GetByUserID", mock.Anything, "user1").Return(profile, nil)
		repo.On("UpdateIdentity", mock.Anything, "user1", mock.Anything).Return(nil)
		repo.On("AdvanceStep", mock.Anything, "user1", 2).Return(nil)
		expectState(repo, profile)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepIdentity,
			json.RawMessage(`{"firstName":"Ada"}`))
		assert.NoError(t, err)
	})
}

func TestSaveStepValidation(t *testing.T) {
	t.Run("Should require both consent flags", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetByUserID", mock.Anything, "user1").Return(draftProfile(0), nil)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepConsent,
			json.RawMessage(`{"termsAccepted":true,"privacyAccepted":false}`))
		assert.Error(t, err)
		repo.AssertNotCalled(t, "AdvanceStep", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should not persist when validation fails", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetByUserID", mock.Anything, "user1").Return(draftProfile(2), nil)

		// Missing required company and start date
		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepExperiences,
			json.RawMessage(`{"experiences":[{"position":"Dev"}]}`))
		assert.Error(t, err)
		repo.AssertNotCalled(t, "ReplaceExperiences", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "AdvanceStep", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should require an end date on past positions", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetByUserID", mock.Anything, "user1").Return(draftProfile(2), nil)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepExperiences,
			json.RawMessage(`{"experiences":[{"company":"Acme","position":"Dev","startDate":"2020-01-01","isCurrent":false}]}`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Validation failed")
		repo.AssertNotCalled(t, "ReplaceExperiences", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should reject an end date on a current position", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetByUserID", mock.Anything, "user1").Return(draftProfile(2), nil)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepExperiences,
			json.RawMessage(`{"experiences":[{"company":"Acme","position":"Dev","startDate":"2020-01-01","endDate":"2023-01-01","isCurrent":true}]}`))
		assert.Error(t, err)
		repo.AssertNotCalled(t, "ReplaceExperiences", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should enforce the professional summary minimum length", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetByUserID", mock.Anything, "user1").Return(draftProfile(1), nil)
		repo.On("UpdateIdentity", mock.Anything, "user1", mock.Anything).Return(nil)
		repo.On("AdvanceStep", mock.Anything, "user1", 2).Return(nil)
		expectState(repo, draftProfile(1))

		short, _ := json.Marshal(map[string]string{"professionalSummary": strings.Repeat("a", 299)})
		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepIdentity, short)
		assert.Error(t, err)

		long, _ := json.Marshal(map[string]string{"professionalSummary": strings.Repeat("a", 300)})
		_, err = uc.SaveStep(ownerCtx("user1"), "user1", domain.StepIdentity, long)
		assert.NoError(t, err)
	})

	t.Run("Should enforce the phone minimum length", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetByUserID", mock.Anything, "user1").Return(draftProfile(1), nil)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepIdentity,
			json.RawMessage(`{"phone":"123456789"}`))
		assert.Error(t, err)
		repo.AssertNotCalled(t, "UpdateIdentity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should require a CV reference on the documents step", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetByUserID", mock.Anything, "user1").Return(draftProfile(6), nil)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepDocuments,
			json.RawMessage(`{"photoDocumentId":"3e0a3a3e-9f8e-4a8e-9f43-0a4b1a2c3d4e"}`))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Validation failed")
	})

	t.Run("Should reject a salary range with max below min", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetByUserID", mock.Anything, "user1").Return(draftProfile(7), nil)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepPreferences,
			json.RawMessage(`{"desiredPositions":["Backend Engineer"],"salaryMin":50000,"salaryMax":40000}`))
		assert.Error(t, err)
		repo.AssertNotCalled(t, "UpsertPreferences", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSaveStepSubmission(t *testing.T) {
	t.Run("Should submit the profile when the final step is saved", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		profile := draftProfile(7)
		repo.On("GetByUserID", mock.Anything, "user1").Return(profile, nil)
		repo.On("UpsertPreferences", mock.Anything, int64(42), mock.Anything).Return(nil)
		repo.On("AdvanceStep", mock.Anything, "user1", 8).Return(nil)
		repo.On("UpdateStatus", mock.Anything, "user1", domain.StatusSubmitted, (*string)(nil)).Return(nil)

		submitted := *profile
		submitted.Status = domain.StatusSubmitted
		submitted.LastStepCompleted = 8
		expectState(repo, &submitted)

		state, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepPreferences,
			json.RawMessage(`{"desiredPositions":["Backend Engineer"]}`))
		assert.NoError(t, err)
		repo.AssertCalled(t, "UpdateStatus", mock.Anything, "user1", domain.StatusSubmitted, (*string)(nil))
		assert.True(t, state.Completed)
		assert.Equal(t, 100, state.CompletionPercentage)
	})

	t.Run("Should not submit on intermediate steps", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		profile := draftProfile(3)
		repo.On("GetByUserID", mock.Anything, "user1").Return(profile, nil)
		repo.On("ReplaceEducations", mock.Anything, int64(42), mock.Anything).Return(nil)
		repo.On("AdvanceStep", mock.Anything, "user1", 4).Return(nil)
		expectState(repo, profile)

		_, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepEducations,
			json.RawMessage(`{"educations":[{"diploma":"MSc","institution":"MIT"}]}`))
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetStateResume(t *testing.T) {
	t.Run("Should resume at the first incomplete step", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		expectState(repo, draftProfile(3))

		state, err := uc.GetState(ownerCtx("user1"), "user1")
		assert.NoError(t, err)
		assert.Equal(t, domain.StepEducations, state.CurrentStep)
		assert.Equal(t, "educations", state.CurrentStepName)
		assert.False(t, state.Completed)
		assert.Equal(t, 37, state.CompletionPercentage)
	})

	t.Run("Should clamp the resume step for completed profiles", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		profile := draftProfile(8)
		expectState(repo, profile)

		state, err := uc.GetState(ownerCtx("user1"), "user1")
		assert.NoError(t, err)
		assert.Equal(t, domain.FinalStep, state.CurrentStep)
		assert.True(t, state.Completed)
	})

	// An account can exist without a profile when registration was cut off
	// between the user insert and the profile insert; the wizard must still
	// serve step 0 for it.
	t.Run("Should create a missing draft profile instead of failing", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetFull", mock.Anything, "user1").Return(nil, nil)
		repo.On("Create", mock.Anything, "user1", mock.AnythingOfType("string")).
			Return(draftProfile(0), nil)

		state, err := uc.GetState(ownerCtx("user1"), "user1")
		assert.NoError(t, err)
		repo.AssertCalled(t, "Create", mock.Anything, "user1", mock.AnythingOfType("string"))
		assert.Equal(t, domain.StepConsent, state.CurrentStep)
		assert.Equal(t, domain.StatusDraft, state.Status)
		assert.Equal(t, 0, state.LastStepCompleted)
	})
}

func TestSaveStepHealsMissingProfile(t *testing.T) {
	t.Run("Should create the draft profile and save the step", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newOnboardingUC(repo)
		repo.On("GetByUserID", mock.Anything, "user1").Return(nil, nil)
		repo.On("Create", mock.Anything, "user1", mock.AnythingOfType("string")).
			Return(draftProfile(0), nil)
		repo.On("AdvanceStep", mock.Anything, "user1", 1).Return(nil)
		expectState(repo, draftProfile(1))

		state, err := uc.SaveStep(ownerCtx("user1"), "user1", domain.StepConsent,
			json.RawMessage(`{"termsAccepted":true,"privacyAccepted":true}`))
		assert.NoError(t, err)
		repo.AssertCalled(t, "Create", mock.Anything, "user1", mock.AnythingOfType("string"))
		assert.Equal(t, 1, state.LastStepCompleted)
	})
}
