package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/pkg/apperror"
	"go-talent-marketplace/pkg/auth"
	"go-talent-marketplace/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authUsecase struct {
	users    domain.UserRepository
	profiles domain.ProfileRepository
	tokens   *auth.TokenManager
	sessions *auth.RefreshStore
	tracker  *auth.LoginTracker
}

func NewAuthUsecase(
	users domain.UserRepository,
	profiles domain.ProfileRepository,
	tokens *auth.TokenManager,
	sessions *auth.RefreshStore,
	tracker *auth.LoginTracker,
) domain.AuthUsecase {
	return &authUsecase{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		sessions: sessions,
		tracker:  tracker,
	}
}

const minPasswordLength = 8

func (u *authUsecase) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.BadRequest("A valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperror.BadRequest("Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleCandidate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.users.Create(ctx, user); err != nil {
		return nil, err // Repository already maps the duplicate-email conflict
	}

	// Every candidate starts with an empty DRAFT profile so the wizard has
	// something to resume into
	if _, err := u.profiles.Create(ctx, user.ID, user.Email); err != nil {
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password, ip string) (*domain.User, *domain.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if u.tracker != nil {
		blocked, err := u.tracker.IsBlocked(ctx, email, ip)
		if err != nil {
			logger.Log.Warn("login block check failed", "error", err)
		}
		if blocked {
			return nil, nil, apperror.New(http.StatusTooManyRequests, "Too many failed attempts. Try again later.", nil)
		}
	}

	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if user == nil {
		u.recordFailure(ctx, email, ip)
		return nil, nil, apperror.Unauthorized("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		u.recordFailure(ctx, email, ip)
		return nil, nil, apperror.Unauthorized("Invalid email or password")
	}

	if u.tracker != nil {
		_ = u.tracker.ClearAttempts(ctx, email, ip)
	}

	pair, err := u.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (u *authUsecase) recordFailure(ctx context.Context, email, ip string) {
	if u.tracker == nil {
		return
	}
	if _, _, err := u.tracker.RecordFailure(ctx, email, ip); err != nil {
		logger.Log.Warn("failed to record login failure", "error", err)
	}
}

func (u *authUsecase) issuePair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, err := u.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	refresh, err := u.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(u.tokens.AccessTTL().Seconds()),
	}, nil
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	userID, err := u.sessions.Resolve(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenInvalid) {
			return nil, apperror.Unauthorized("Session expired, please log in again")
		}
		return nil, apperror.Internal(err)
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("Session expired, please log in again")
	}

	// Rotation: issuing a new pair revokes the presented token
	return u.issuePair(ctx, user)
}

func (u *authUsecase) Logout(ctx context.Context, userID string) error {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return apperror.Forbidden("You can only log out your own session")
	}
	return u.sessions.Revoke(ctx, userID)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}
