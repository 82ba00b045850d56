package domain

import (
	"context"
	"time"
)

// ============================================================================
// Profile Status
// ============================================================================

// ProfileStatus is the review lifecycle state of a candidate profile.
type ProfileStatus string

const (
	StatusDraft     ProfileStatus = "DRAFT"
	StatusSubmitted ProfileStatus = "SUBMITTED"
	StatusInReview  ProfileStatus = "IN_REVIEW"
	StatusValidated ProfileStatus = "VALIDATED"
	StatusRejected  ProfileStatus = "REJECTED"
	StatusArchived  ProfileStatus = "ARCHIVED"
)

// ValidProfileStatuses returns all profile statuses
func ValidProfileStatuses() []ProfileStatus {
	return []ProfileStatus{
		StatusDraft, StatusSubmitted, StatusInReview,
		StatusValidated, StatusRejected, StatusArchived,
	}
}

// IsValid checks if the status is a known value
func (s ProfileStatus) IsValid() bool {
	for _, valid := range ValidProfileStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// reviewTransitions maps each status to the statuses an admin may move it to.
// DRAFT -> SUBMITTED is driven by onboarding completion, not by review.
var reviewTransitions = map[ProfileStatus][]ProfileStatus{
	StatusSubmitted: {StatusInReview, StatusArchived},
	StatusInReview:  {StatusValidated, StatusRejected, StatusArchived},
	StatusValidated: {StatusArchived},
	StatusRejected:  {StatusInReview, StatusArchived},
}

// CanTransitionTo reports whether an admin review action may move a profile
// from s to next.
func (s ProfileStatus) CanTransitionTo(next ProfileStatus) bool {
	for _, allowed := range reviewTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// ============================================================================
// Candidate Profile (root aggregate)
// ============================================================================

type CandidateProfile struct {
	ID     int64  `json:"id"`
	UserID string `json:"user_id"`

	// Identity
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Nationality string     `json:"nationality"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	Country     string     `json:"country"`

	// Professional
	ProfileTitle        string `json:"profile_title"`
	ProfessionalSummary string `json:"professional_summary"`
	Sector              string `json:"sector"`
	MainJob             string `json:"main_job"`
	YearsOfExperience   int    `json:"years_of_experience"`

	// Onboarding documents
	CVDocumentID    *string `json:"cv_document_id,omitempty"`
	PhotoDocumentID *string `json:"photo_document_id,omitempty"`

	Status            ProfileStatus `json:"status"`
	LastStepCompleted int           `json:"last_step_completed"` // Count of completed steps, 0-8
	ReviewNotes       *string       `json:"review_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate carries a partial update of the profile root. Nil pointers
// are omitted from the UPDATE, which is what gives the identity step its
// partial-update semantics.
type ProfileUpdate struct {
	FirstName           *string
	LastName            *string
	DateOfBirth         *time.Time
	Nationality         *string
	Email               *string
	Phone               *string
	Address             *string
	Country             *string
	ProfileTitle        *string
	ProfessionalSummary *string
	Sector              *string
	MainJob             *string
	YearsOfExperience   *int
	CVDocumentID        *string
	PhotoDocumentID     *string
}

// ============================================================================
// Child entities (replace-set synchronized)
// ============================================================================

type Experience struct {
	ID           int64      `json:"id"`
	ProfileID    int64      `json:"profile_id"`
	Company      string     `json:"company"`
	Position     string     `json:"position"`
	Sector       string     `json:"sector"`
	ContractType string     `json:"contract_type"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"` // Nil when IsCurrent
	IsCurrent    bool       `json:"is_current"`
	Description  string     `json:"description"`
	Achievements []string   `json:"achievements"`
	DocumentID   *string    `json:"document_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Education struct {
	ID             int64     `json:"id"`
	ProfileID      int64     `json:"profile_id"`
	Diploma        string    `json:"diploma"`
	Institution    string    `json:"institution"`
	Country        string    `json:"country"`
	StartYear      int       `json:"start_year"`
	GraduationYear int       `json:"graduation_year"`
	Level          string    `json:"level"`
	CreatedAt      time.Time `json:"created_at"`
}

type Certification struct {
	ID              int64      `json:"id"`
	ProfileID       int64      `json:"profile_id"`
	Title           string     `json:"title"`
	Issuer          string     `json:"issuer"`
	Year            int        `json:"year"`
	ExpirationDate  *time.Time `json:"expiration_date,omitempty"`
	VerificationURL *string    `json:"verification_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// SkillType discriminates the three skill families collected in onboarding.
type SkillType string

const (
	SkillTechnical SkillType = "TECHNICAL"
	SkillSoft      SkillType = "SOFT"
	SkillTool      SkillType = "TOOL"
)

// IsValid checks if the skill type is a known value
func (t SkillType) IsValid() bool {
	return t == SkillTechnical || t == SkillSoft || t == SkillTool
}

type Skill struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"profile_id"`
	Name      string    `json:"name"`
	SkillType SkillType `json:"skill_type"`
	// Level is required for TECHNICAL and TOOL skills, always nil for SOFT.
	Level *string `json:"level"`
	// YearsOfPractice is only tracked for TECHNICAL skills.
	YearsOfPractice *int `json:"years_of_practice,omitempty"`
}

// JobPreferences is a singleton child, upserted rather than replace-set.
type JobPreferences struct {
	ID               int64     `json:"id"`
	ProfileID        int64     `json:"profile_id"`
	DesiredPositions []string  `json:"desired_positions"` // 1-5 entries
	ContractTypes    []string  `json:"contract_types"`
	Sectors          []string  `json:"sectors"`
	DesiredLocation  string    `json:"desired_location"`
	Mobility         string    `json:"mobility"`
	Availability     string    `json:"availability"`
	SalaryMin        *int64    `json:"salary_min,omitempty"`
	SalaryMax        *int64    `json:"salary_max,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FullProfile is the root aggregate with all children loaded.
type FullProfile struct {
	Profile        CandidateProfile `json:"profile"`
	Experiences    []Experience     `json:"experiences"`
	Educations     []Education      `json:"educations"`
	Certifications []Certification  `json:"certifications"`
	Skills         []Skill          `json:"skills"`
	Preferences    *JobPreferences  `json:"preferences,omitempty"`
}

// ============================================================================
// Repository Interface
// ============================================================================

type ProfileRepository interface {
	// Create inserts an empty DRAFT profile for the user at registration.
	Create(ctx context.Context, userID, email string) (*CandidateProfile, error)

	GetByUserID(ctx context.Context, userID string) (*CandidateProfile, error)
	GetFull(ctx context.Context, userID string) (*FullProfile, error)

	// UpdateIdentity applies a partial update of the profile root.
	UpdateIdentity(ctx context.Context, userID string, upd *ProfileUpdate) error

	// AdvanceStep raises the completed-steps watermark to completedThrough
	// if it is higher than the stored value. Never lowers it.
	AdvanceStep(ctx context.Context, userID string, completedThrough int) error

	// Replace* implement replace-set synchronization: all existing rows for
	// the profile are deleted and the given set recreated in order, inside
	// one transaction. No incremental diffing.
	ReplaceExperiences(ctx context.Context, profileID int64, items []Experience) error
	ReplaceEducations(ctx context.Context, profileID int64, items []Education) error
	ReplaceCertifications(ctx context.Context, profileID int64, items []Certification) error
	ReplaceSkills(ctx context.Context, profileID int64, items []Skill) error

	UpsertPreferences(ctx context.Context, profileID int64, prefs *JobPreferences) error

	UpdateStatus(ctx context.Context, userID string, status ProfileStatus, notes *string) error
	ListByStatus(ctx context.Context, status ProfileStatus, limit, offset int) ([]CandidateProfile, error)
}

// ============================================================================
// Usecase Interfaces
// ============================================================================

type CandidateUsecase interface {
	// GetMyProfile returns the caller's full profile with all children.
	GetMyProfile(ctx context.Context, userID string) (*FullProfile, error)
}

// ReviewRequest is an admin decision on a submitted profile.
type ReviewRequest struct {
	Status ProfileStatus `json:"status" validate:"required"`
	Notes  *string       `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type AdminUsecase interface {
	ListProfiles(ctx context.Context, status ProfileStatus, limit, offset int) ([]CandidateProfile, error)
	GetProfile(ctx context.Context, userID string) (*FullProfile, error)
	// Review moves a profile through the review lifecycle. Transitions not
	// allowed by the status machine are rejected.
	Review(ctx context.Context, userID string, req *ReviewRequest) error
}
