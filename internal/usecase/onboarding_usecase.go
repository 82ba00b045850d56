package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/pkg/apperror"
	"go-talent-marketplace/pkg/email"
	"go-talent-marketplace/pkg/logger"
	"go-talent-marketplace/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type onboardingUsecase struct {
	profiles domain.ProfileRepository
	validate *validator.Validate
	mailer   *email.Service // Optional, nil disables submission notifications
}

func NewOnboardingUsecase(profiles domain.ProfileRepository, validate *validator.Validate, mailer *email.Service) domain.OnboardingUsecase {
	return &onboardingUsecase{
		profiles: profiles,
		validate: validate,
		mailer:   mailer,
	}
}

// requireOwner enforces that the context user is the candidate being acted on.
func requireOwner(ctx context.Context, userID string) error {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return apperror.Forbidden("You can only access your own onboarding")
	}
	return nil
}

func (u *onboardingUsecase) GetState(ctx context.Context, userID string) (*domain.OnboardingState, error) {
	if err := requireOwner(ctx, userID); err != nil {
		return nil, err
	}

	full, err := u.profiles.GetFull(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if full == nil {
		profile, err := u.createDraft(ctx, userID)
		if err != nil {
			return nil, err
		}
		full = &domain.FullProfile{Profile: *profile}
	}

	return buildState(full), nil
}

// createDraft provisions the empty DRAFT profile a candidate needs before
// the wizard can serve step 0. Registration creates it eagerly; doing it
// here too heals accounts whose registration was interrupted between the
// user insert and the profile insert.
func (u *onboardingUsecase) createDraft(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	email, _ := ctx.Value(domain.KeyUserEmail).(string)
	profile, err := u.profiles.Create(ctx, userID, email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	logger.Log.Info("created missing draft profile", "user_id", userID)
	return profile, nil
}

func buildState(full *domain.FullProfile) *domain.OnboardingState {
	watermark := full.Profile.LastStepCompleted
	totalSteps := int(domain.FinalStep) + 1

	completed := watermark >= totalSteps
	pct := watermark * 100 / totalSteps
	if pct > 100 {
		pct = 100
	}

	current := domain.ClampStep(watermark)
	return &domain.OnboardingState{
		CurrentStep:          current,
		CurrentStepName:      current.String(),
		LastStepCompleted:    watermark,
		Completed:            completed,
		Status:               full.Profile.Status,
		CompletionPercentage: pct,
		Form:                 BuildFormData(full),
	}
}

func (u *onboardingUsecase) SaveStep(ctx context.Context, userID string, step domain.Step, payload json.RawMessage) (*domain.OnboardingState, error) {
	if err := requireOwner(ctx, userID); err != nil {
		return nil, err
	}
	if !step.IsValid() {
		return nil, apperror.BadRequest("Unknown onboarding step")
	}

	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if profile == nil {
		if profile, err = u.createDraft(ctx, userID); err != nil {
			return nil, err
		}
	}

	// Only drafts and rejected profiles are editable; a submitted profile
	// sits in the review queue untouched
	if profile.Status != domain.StatusDraft && profile.Status != domain.StatusRejected {
		return nil, apperror.Conflict("Profile has been submitted and can no longer be edited")
	}

	// Forward skipping: saving step N requires steps 0..N-1 done. Going
	// back to redo an earlier step is always allowed.
	if int(step) > profile.LastStepCompleted {
		return nil, apperror.BadRequest("Complete the previous steps first")
	}

	if err := u.applyStep(ctx, profile, step, payload); err != nil {
		return nil, err
	}

	if err := u.profiles.AdvanceStep(ctx, userID, int(step)+1); err != nil {
		return nil, apperror.Internal(err)
	}

	if step == domain.FinalStep {
		if err := u.submit(ctx, profile); err != nil {
			return nil, err
		}
	}

	return u.GetState(ctx, userID)
}

// applyStep decodes, validates and persists one step payload.
func (u *onboardingUsecase) applyStep(ctx context.Context, profile *domain.CandidateProfile, step domain.Step, payload json.RawMessage) error {
	switch step {
	case domain.StepConsent:
		var p domain.ConsentPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return apperror.BadRequest("Invalid request body")
		}
		if !p.TermsAccepted || !p.PrivacyAccepted {
			return apperror.Validation("Validation failed", []validation.FieldError{
				{Field: "termsAccepted", Message: "You must accept the terms and the privacy policy"},
			})
		}
		// Nothing stored beyond the watermark
		return nil

	case domain.StepIdentity:
		var p domain.IdentityPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return apperror.BadRequest("Invalid request body")
		}
		if err := u.validate.Struct(&p); err != nil {
			return apperror.Validation("Validation failed", validation.FieldErrors(err))
		}
		if err := u.profiles.UpdateIdentity(ctx, profile.UserID, IdentityToUpdate(&p)); err != nil {
			return apperror.Internal(err)
		}
		return nil

	case domain.StepExperiences:
		var p domain.ExperiencesPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return apperror.BadRequest("Invalid request body")
		}
		if err := u.validate.Struct(&p); err != nil {
			return apperror.Validation("Validation failed", validation.FieldErrors(err))
		}
		if fieldErrs := checkExperienceDates(p.Experiences); len(fieldErrs) > 0 {
			return apperror.Validation("Validation failed", fieldErrs)
		}
		if err := u.profiles.ReplaceExperiences(ctx, profile.ID, ExperiencesToDomain(p.Experiences)); err != nil {
			return apperror.Internal(err)
		}
		return nil

	case domain.StepEducations:
		var p domain.EducationsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return apperror.BadRequest("Invalid request body")
		}
		if err := u.validate.Struct(&p); err != nil {
			return apperror.Validation("Validation failed", validation.FieldErrors(err))
		}
		if err := u.profiles.ReplaceEducations(ctx, profile.ID, EducationsToDomain(p.Educations)); err != nil {
			return apperror.Internal(err)
		}
		return nil

	case domain.StepCertifications:
		var p domain.CertificationsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return apperror.BadRequest("Invalid request body")
		}
		if err := u.validate.Struct(&p); err != nil {
			return apperror.Validation("Validation failed", validation.FieldErrors(err))
		}
		if err := u.profiles.ReplaceCertifications(ctx, profile.ID, CertificationsToDomain(p.Certifications)); err != nil {
			return apperror.Internal(err)
		}
		return nil

	case domain.StepSkills:
		var p domain.SkillsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return apperror.BadRequest("Invalid request body")
		}
		if err := u.validate.Struct(&p); err != nil {
			return apperror.Validation("Validation failed", validation.FieldErrors(err))
		}
		if err := u.profiles.ReplaceSkills(ctx, profile.ID, SkillsToDomain(&p)); err != nil {
			return apperror.Internal(err)
		}
		return nil

	case domain.StepDocuments:
		var p domain.DocumentsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return apperror.BadRequest("Invalid request body")
		}
		if err := u.validate.Struct(&p); err != nil {
			return apperror.Validation("Validation failed", validation.FieldErrors(err))
		}
		if p.CVDocumentID == nil || *p.CVDocumentID == "" {
			return apperror.Validation("Validation failed", []validation.FieldError{
				{Field: "cvDocumentId", Message: "A CV is required"},
			})
		}
		upd := &domain.ProfileUpdate{
			CVDocumentID:    p.CVDocumentID,
			PhotoDocumentID: p.PhotoDocumentID,
		}
		if err := u.profiles.UpdateIdentity(ctx, profile.UserID, upd); err != nil {
			return apperror.Internal(err)
		}
		return nil

	case domain.StepPreferences:
		var p domain.PreferencesPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return apperror.BadRequest("Invalid request body")
		}
		if err := u.validate.Struct(&p); err != nil {
			return apperror.Validation("Validation failed", validation.FieldErrors(err))
		}
		if p.SalaryMin != nil && p.SalaryMax != nil && *p.SalaryMax < *p.SalaryMin {
			return apperror.Validation("Validation failed", []validation.FieldError{
				{Field: "salaryMax", Message: "Maximum salary must be at least the minimum salary"},
			})
		}
		if err := u.profiles.UpsertPreferences(ctx, profile.ID, PreferencesToDomain(&p)); err != nil {
			return apperror.Internal(err)
		}
		return nil
	}

	return apperror.BadRequest("Unknown onboarding step")
}

// checkExperienceDates enforces the current-position rule: a current
// position has no end date, a past one requires it, and it cannot precede
// the start date.
func checkExperienceDates(entries []domain.ExperienceEntry) []validation.FieldError {
	var errs []validation.FieldError
	for i, e := range entries {
		if e.IsCurrent && e.EndDate != nil && *e.EndDate != "" {
			errs = append(errs, validation.FieldError{
				Field:   indexedField("experiences", i, "endDate"),
				Message: "A current position cannot have an end date",
			})
			continue
		}
		if !e.IsCurrent {
			if e.EndDate == nil || *e.EndDate == "" {
				errs = append(errs, validation.FieldError{
					Field:   indexedField("experiences", i, "endDate"),
					Message: "End date is required unless this is your current position",
				})
				continue
			}
			start, err1 := time.Parse(dateLayout, e.StartDate)
			end, err2 := time.Parse(dateLayout, *e.EndDate)
			if err1 == nil && err2 == nil && end.Before(start) {
				errs = append(errs, validation.FieldError{
					Field:   indexedField("experiences", i, "endDate"),
					Message: "End date cannot be before the start date",
				})
			}
		}
	}
	return errs
}

func indexedField(list string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", list, i, field)
}

// submit moves the profile to SUBMITTED and notifies the review team.
func (u *onboardingUsecase) submit(ctx context.Context, profile *domain.CandidateProfile) error {
	if err := u.profiles.UpdateStatus(ctx, profile.UserID, domain.StatusSubmitted, nil); err != nil {
		return apperror.Internal(err)
	}

	// Notification is best effort: a mail failure must not undo the submission
	if u.mailer != nil && u.mailer.IsConfigured() {
		data := email.SubmissionEmailData{
			CandidateName:  profile.FirstName + " " + profile.LastName,
			CandidateEmail: profile.Email,
			ProfileID:      strconv.FormatInt(profile.ID, 10),
			SubmittedAt:    time.Now().Format(time.RFC3339),
		}
		if err := u.mailer.SendSubmissionNotification(data); err != nil {
			logger.Log.Warn("failed to send submission notification",
				"user_id", profile.UserID,
				"error", err,
			)
		}
	}
	return nil
}
