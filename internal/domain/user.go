package domain

import (
	"context"
	"time"
)

// Role constants. Stored uppercase to match the users.role CHECK constraint.
const (
	RoleCandidate = "CANDIDATE"
	RoleRecruiter = "RECRUITER"
	RoleAdmin     = "ADMIN"
)

// ValidRoles for validation
var ValidRoles = []string{RoleCandidate, RoleRecruiter, RoleAdmin}

// DefaultLandingRoute returns the frontend route a user of the given role
// should land on when a role guard denies access elsewhere.
func DefaultLandingRoute(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleRecruiter:
		return "/recruiter"
	default:
		return "/dashboard"
	}
}

type User struct {
	ID           string    `json:"id"` // UUID
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access token lifetime in seconds
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type AuthUsecase interface {
	// Register creates a user with the CANDIDATE role and an empty DRAFT
	// profile. Duplicate emails are rejected with a 409.
	Register(ctx context.Context, email, password string) (*User, error)

	// Login verifies credentials and issues an access/refresh token pair.
	// ip is used for failed-login tracking.
	Login(ctx context.Context, email, password, ip string) (*User, *TokenPair, error)

	// Refresh exchanges a valid refresh token for a new pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the user's refresh token.
	Logout(ctx context.Context, userID string) error

	GetCurrentUser(ctx context.Context, id string) (*User, error)
}
