package domain

import (
	"context"
	"encoding/json"
)

// ============================================================================
// Onboarding Steps
// ============================================================================

// Step is an index into the onboarding wizard sequence.
type Step int

const (
	StepConsent Step = iota
	StepIdentity
	StepExperiences
	StepEducations
	StepCertifications
	StepSkills
	StepDocuments
	StepPreferences
)

// FinalStep is the last wizard step; saving it submits the profile.
const FinalStep = StepPreferences

// IsValid checks if the step index is within the wizard range
func (s Step) IsValid() bool {
	return s >= StepConsent && s <= FinalStep
}

func (s Step) String() string {
	names := [...]string{
		"consent", "identity", "experiences", "educations",
		"certifications", "skills", "documents", "preferences",
	}
	if !s.IsValid() {
		return "unknown"
	}
	return names[s]
}

// ClampStep maps a stored watermark to a valid resume position.
func ClampStep(watermark int) Step {
	if watermark < int(StepConsent) {
		return StepConsent
	}
	if watermark > int(FinalStep) {
		return FinalStep
	}
	return Step(watermark)
}

// ============================================================================
// Step payloads (client-shaped, camelCase)
//
// One tagged record type per step. The orchestrator decodes the raw body
// into the type matching the step index; unknown steps are rejected before
// decoding.
// ============================================================================

type ConsentPayload struct {
	TermsAccepted   bool `json:"termsAccepted"`
	PrivacyAccepted bool `json:"privacyAccepted"`
}

// IdentityPayload uses pointer fields: nil means "leave unchanged" so the
// identity step keeps partial-update semantics.
type IdentityPayload struct {
	FirstName           *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100,valid_name"`
	LastName            *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100,valid_name"`
	DateOfBirth         *string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Nationality         *string `json:"nationality,omitempty" validate:"omitempty,max=100"`
	Email               *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone               *string `json:"phone,omitempty" validate:"omitempty,min=10,valid_phone"`
	Address             *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Country             *string `json:"country,omitempty" validate:"omitempty,max=100"`
	ProfileTitle        *string `json:"profileTitle,omitempty" validate:"omitempty,min=3,max=150"`
	ProfessionalSummary *string `json:"professionalSummary,omitempty" validate:"omitempty,min=300,no_emoji"`
	Sector              *string `json:"sector,omitempty" validate:"omitempty,max=100"`
	MainJob             *string `json:"mainJob,omitempty" validate:"omitempty,max=150"`
	YearsOfExperience   *int    `json:"yearsOfExperience,omitempty" validate:"omitempty,min=0,max=60"`
}

type ExperienceEntry struct {
	Company      string   `json:"company" validate:"required,max=150"`
	Position     string   `json:"position" validate:"required,max=150"`
	Sector       string   `json:"sector" validate:"max=100"`
	ContractType string   `json:"contractType" validate:"max=50"`
	StartDate    string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      *string  `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent    bool     `json:"isCurrent"`
	Description  string   `json:"description" validate:"max=2000"`
	Achievements []string `json:"achievements" validate:"dive,max=500"`
	DocumentID   *string  `json:"documentId,omitempty" validate:"omitempty,uuid"`
}

type ExperiencesPayload struct {
	Experiences []ExperienceEntry `json:"experiences" validate:"required,min=1,dive"`
}

type EducationEntry struct {
	Diploma        string `json:"diploma" validate:"required,max=150"`
	Institution    string `json:"institution" validate:"required,max=150"`
	Country        string `json:"country" validate:"max=100"`
	StartYear      int    `json:"startYear" validate:"omitempty,min=1950,max_current_year"`
	GraduationYear int    `json:"graduationYear" validate:"omitempty,min=1950"`
	Level          string `json:"level" validate:"max=100"`
}

type EducationsPayload struct {
	Educations []EducationEntry `json:"educations" validate:"required,min=1,dive"`
}

type CertificationEntry struct {
	Title           string  `json:"title" validate:"required,max=150"`
	Issuer          string  `json:"issuer" validate:"max=150"`
	Year            int     `json:"year" validate:"omitempty,min=1950,max_current_year"`
	ExpirationDate  *string `json:"expirationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	VerificationURL *string `json:"verificationUrl,omitempty" validate:"omitempty,url"`
}

// CertificationsPayload allows an empty list: certifications are optional.
type CertificationsPayload struct {
	Certifications []CertificationEntry `json:"certifications" validate:"dive"`
}

// Skill levels shared by technical skills and tools.
const (
	SkillLevelBeginner     = "BEGINNER"
	SkillLevelIntermediate = "INTERMEDIATE"
	SkillLevelAdvanced     = "ADVANCED"
	SkillLevelExpert       = "EXPERT"
)

type TechnicalSkillEntry struct {
	Name            string `json:"name" validate:"required,max=100"`
	Level           string `json:"level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	YearsOfPractice int    `json:"yearsOfPractice" validate:"min=0,max=60"`
}

type ToolEntry struct {
	Name  string `json:"name" validate:"required,max=100"`
	Level string `json:"level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
}

// SkillsPayload combines three heterogeneous inputs; the mapper flattens
// them into one Skill list tagged with the correct skill_type.
type SkillsPayload struct {
	TechnicalSkills []TechnicalSkillEntry `json:"technicalSkills" validate:"dive"`
	SoftSkills      []string              `json:"softSkills" validate:"dive,min=1,max=100"`
	Tools           []ToolEntry           `json:"tools" validate:"dive"`
}

// DocumentsPayload references documents already uploaded through the
// documents endpoint. The CV reference is mandatory to pass the step.
type DocumentsPayload struct {
	CVDocumentID           *string  `json:"cvDocumentId,omitempty" validate:"omitempty,uuid"`
	PhotoDocumentID        *string  `json:"photoDocumentId,omitempty" validate:"omitempty,uuid"`
	CertificateDocumentIDs []string `json:"certificateDocumentIds" validate:"dive,uuid"`
}

type PreferencesPayload struct {
	DesiredPositions []string `json:"desiredPositions" validate:"required,min=1,max=5,dive,min=1,max=150"`
	ContractTypes    []string `json:"contractTypes" validate:"dive,max=50"`
	Sectors          []string `json:"sectors" validate:"dive,max=100"`
	DesiredLocation  string   `json:"desiredLocation" validate:"max=150"`
	Mobility         string   `json:"mobility" validate:"max=100"`
	Availability     string   `json:"availability" validate:"max=100"`
	SalaryMin        *int64   `json:"salaryMin,omitempty" validate:"omitempty,min=0"`
	SalaryMax        *int64   `json:"salaryMax,omitempty" validate:"omitempty,min=0"`
}

// ============================================================================
// Wizard state returned to the client
// ============================================================================

// IdentityForm is the identity step mapped back for rendering. Unlike
// IdentityPayload every field is a value with a defined zero fallback, so a
// form input is never fed an undefined value.
type IdentityForm struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	DateOfBirth         string `json:"dateOfBirth"`
	Nationality         string `json:"nationality"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	Country             string `json:"country"`
	ProfileTitle        string `json:"profileTitle"`
	ProfessionalSummary string `json:"professionalSummary"`
	Sector              string `json:"sector"`
	MainJob             string `json:"mainJob"`
	YearsOfExperience   int    `json:"yearsOfExperience"`
}

type SkillsForm struct {
	TechnicalSkills []TechnicalSkillEntry `json:"technicalSkills"`
	SoftSkills      []string              `json:"softSkills"`
	Tools           []ToolEntry           `json:"tools"`
}

type DocumentsForm struct {
	CVDocumentID    string `json:"cvDocumentId"`
	PhotoDocumentID string `json:"photoDocumentId"`
}

type PreferencesForm struct {
	DesiredPositions []string `json:"desiredPositions"`
	ContractTypes    []string `json:"contractTypes"`
	Sectors          []string `json:"sectors"`
	DesiredLocation  string   `json:"desiredLocation"`
	Mobility         string   `json:"mobility"`
	Availability     string   `json:"availability"`
	SalaryMin        int64    `json:"salaryMin"`
	SalaryMax        int64    `json:"salaryMax"`
}

// FormData is the whole wizard mapped back to client shape. Slices are
// always non-nil.
type FormData struct {
	Identity       IdentityForm         `json:"identity"`
	Experiences    []ExperienceEntry    `json:"experiences"`
	Educations     []EducationEntry     `json:"educations"`
	Certifications []CertificationEntry `json:"certifications"`
	Skills         SkillsForm           `json:"skills"`
	Documents      DocumentsForm        `json:"documents"`
	Preferences    PreferencesForm      `json:"preferences"`
}

// OnboardingState is the orchestrator's view of where a candidate is.
type OnboardingState struct {
	CurrentStep          Step          `json:"current_step"`
	CurrentStepName      string        `json:"current_step_name"`
	LastStepCompleted    int           `json:"last_step_completed"`
	Completed            bool          `json:"completed"`
	Status               ProfileStatus `json:"status"`
	CompletionPercentage int           `json:"completion_percentage"`
	Form                 *FormData     `json:"form"`
}

// ============================================================================
// Usecase Interface
// ============================================================================

type OnboardingUsecase interface {
	// GetState resolves the resume position and the full form data for the
	// owning candidate.
	GetState(ctx context.Context, userID string) (*OnboardingState, error)

	// SaveStep validates and persists one wizard step. Forward skipping is
	// rejected; re-saving an earlier step never lowers the watermark.
	// Saving the final step submits the profile for review.
	SaveStep(ctx context.Context, userID string, step Step, payload json.RawMessage) (*OnboardingState, error)
}
