package usecase

import (
	"context"

	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/pkg/apperror"
)

type candidateUsecase struct {
	profiles domain.ProfileRepository
}

func NewCandidateUsecase(profiles domain.ProfileRepository) domain.CandidateUsecase {
	return &candidateUsecase{profiles: profiles}
}

func (u *candidateUsecase) GetMyProfile(ctx context.Context, userID string) (*domain.FullProfile, error) {
	// Security: Ownership Check
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return nil, apperror.Forbidden("You can only view your own profile")
	}

	full, err := u.profiles.GetFull(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if full == nil {
		return nil, apperror.NotFound("Candidate profile not found")
	}
	return full, nil
}
