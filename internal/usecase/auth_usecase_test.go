package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/internal/usecase"
	"go-talent-marketplace/pkg/apperror"
	"go-talent-marketplace/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newAuthUC(users *MockUserRepo, profiles *MockProfileRepo) domain.AuthUsecase {
	tokens := auth.NewTokenManager("test-secret", "test", 15*time.Minute)
	sessions := auth.NewRefreshStore(24 * time.Hour)
	return usecase.NewAuthUsecase(users, profiles, tokens, sessions, nil)
}

func TestRegister(t *testing.T) {
	t.Run("Should create a candidate with an empty draft profile", func(t *testing.T) {
		users := new(MockUserRepo)
		profiles := new(MockProfileRepo)
		uc := newAuthUC(users, profiles)

		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
		profiles.On("Create", mock.Anything, mock.AnythingOfType("string"), "ada@example.com").
			Return(&domain.CandidateProfile{Status: domain.StatusDraft}, nil)

		user, err := uc.Register(context.Background(), "  Ada@Example.com ", "password123")
		assert.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, domain.RoleCandidate, user.Role)
		assert.NotEmpty(t, user.ID)
		profiles.AssertCalled(t, "Create", mock.Anything, user.ID, "ada@example.com")
	})

	t.Run("Should reject short passwords", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := newAuthUC(users, new(MockProfileRepo))

		_, err := uc.Register(context.Background(), "ada@example.com", "short")
		assert.Error(t, err)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should surface the duplicate email conflict", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := newAuthUC(users, new(MockProfileRepo))
		users.On("Create", mock.Anything, mock.Anything).
			Return(apperror.Conflict("User with this email already exists"))

		_, err := uc.Register(context.Background(), "ada@example.com", "password123")
		assert.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 409, appErr.Code)
	})
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	stored := &domain.User{
		ID:           "user1",
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleCandidate,
	}

	t.Run("Should issue a token pair on valid credentials", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := newAuthUC(users, new(MockProfileRepo))
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil)

		user, pair, err := uc.Login(context.Background(), "Ada@Example.com", "password123", "10.0.0.1")
		assert.NoError(t, err)
		assert.Equal(t, "user1", user.ID)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, int64(900), pair.ExpiresIn)
	})

	t.Run("Should not reveal whether the email exists", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := newAuthUC(users, new(MockProfileRepo))
		users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil)

		_, _, errUnknown := uc.Login(context.Background(), "ghost@example.com", "password123", "10.0.0.1")
		_, _, errWrongPw := uc.Login(context.Background(), "ada@example.com", "wrongpassword", "10.0.0.1")

		assert.Error(t, errUnknown)
		assert.Error(t, errWrongPw)
		assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	})
}

func TestRefreshRotation(t *testing.T) {
	t.Run("Should rotate the refresh token", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := newAuthUC(users, new(MockProfileRepo))
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		stored := &domain.User{ID: "user1", Email: "ada@example.com", PasswordHash: string(hash)}
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil)
		users.On("GetByID", mock.Anything, "user1").Return(stored, nil)

		_, pair, err := uc.Login(context.Background(), "ada@example.com", "password123", "10.0.0.1")
		assert.NoError(t, err)

		next, err := uc.Refresh(context.Background(), pair.RefreshToken)
		assert.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

		// The presented token was revoked by the rotation
		_, err = uc.Refresh(context.Background(), pair.RefreshToken)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Session expired")
	})

	t.Run("Should reject an unknown refresh token", func(t *testing.T) {
		uc := newAuthUC(new(MockUserRepo), new(MockProfileRepo))

		_, err := uc.Refresh(context.Background(), "deadbeef")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Session expired")
	})
}

func TestLogout(t *testing.T) {
	t.Run("Should fail when Context UserID does not match Argument UserID", func(t *testing.T) {
		uc := newAuthUC(new(MockUserRepo), new(MockProfileRepo))

		ctx := context.WithValue(context.Background(), domain.KeyUserID, "user1")
		err := uc.Logout(ctx, "user2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only log out your own session")
	})

	t.Run("Should fail safely when Context UserID is nil", func(t *testing.T) {
		uc := newAuthUC(new(MockUserRepo), new(MockProfileRepo))

		err := uc.Logout(context.Background(), "user1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "User not authenticated")
	})
}
