package usecase

import (
	"context"

	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/pkg/apperror"
	"go-talent-marketplace/pkg/logger"
	"go-talent-marketplace/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type adminUsecase struct {
	profiles domain.ProfileRepository
	validate *validator.Validate
}

func NewAdminUsecase(profiles domain.ProfileRepository, validate *validator.Validate) domain.AdminUsecase {
	return &adminUsecase{profiles: profiles, validate: validate}
}

// requireAdmin double-checks the role even though the route guard already
// filtered. Usecases never trust the delivery layer alone.
func requireAdmin(ctx context.Context) error {
	role, _ := ctx.Value(domain.KeyUserRole).(string)
	if role != domain.RoleAdmin {
		return apperror.Forbidden("Admin access required")
	}
	return nil
}

func (u *adminUsecase) ListProfiles(ctx context.Context, status domain.ProfileStatus, limit, offset int) ([]domain.CandidateProfile, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if status == "" {
		status = domain.StatusSubmitted
	}
	if !status.IsValid() {
		return nil, apperror.BadRequest("Unknown profile status")
	}
	return u.profiles.ListByStatus(ctx, status, limit, offset)
}

func (u *adminUsecase) GetProfile(ctx context.Context, userID string) (*domain.FullProfile, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
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

func (u *adminUsecase) Review(ctx context.Context, userID string, req *domain.ReviewRequest) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := u.validate.Struct(req); err != nil {
		return apperror.Validation("Validation failed", validation.FieldErrors(err))
	}
	if !req.Status.IsValid() {
		return apperror.BadRequest("Unknown profile status")
	}

	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return apperror.Internal(err)
	}
	if profile == nil {
		return apperror.NotFound("Candidate profile not found")
	}

	if !profile.Status.CanTransitionTo(req.Status) {
		return apperror.Conflict("Cannot move profile from " + string(profile.Status) + " to " + string(req.Status))
	}

	if err := u.profiles.UpdateStatus(ctx, userID, req.Status, req.Notes); err != nil {
		return apperror.Internal(err)
	}

	adminID, _ := ctx.Value(domain.KeyUserID).(string)
	logger.Log.Info("profile reviewed",
		"user_id", userID,
		"admin_id", adminID,
		"from", profile.Status,
		"to", req.Status,
	)
	return nil
}
