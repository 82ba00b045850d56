package usecase

import (
	"time"

	"go-talent-marketplace/internal/domain"
)

// Pure mapping between the client-shaped step payloads (camelCase, string
// dates) and the stored domain entities. Round-trip safe: mapping a payload
// to domain and back yields the same payload.

const dateLayout = "2006-01-02"

// ============================================================================
// Identity
// ============================================================================

// IdentityToUpdate converts the identity payload to a partial profile
// update. Nil payload fields stay nil and are skipped by the repository.
func IdentityToUpdate(p *domain.IdentityPayload) *domain.ProfileUpdate {
	upd := &domain.ProfileUpdate{
		FirstName:           p.FirstName,
		LastName:            p.LastName,
		Nationality:         p.Nationality,
		Email:               p.Email,
		Phone:               p.Phone,
		Address:             p.Address,
		Country:             p.Country,
		ProfileTitle:        p.ProfileTitle,
		ProfessionalSummary: p.ProfessionalSummary,
		Sector:              p.Sector,
		MainJob:             p.MainJob,
		YearsOfExperience:   p.YearsOfExperience,
	}
	if p.DateOfBirth != nil && *p.DateOfBirth != "" {
		if t, err := time.Parse(dateLayout, *p.DateOfBirth); err == nil {
			upd.DateOfBirth = &t
		}
	}
	return upd
}

// IdentityToForm maps the stored profile back to form values. Every field
// has a defined zero fallback so the client never renders an undefined.
func IdentityToForm(p *domain.CandidateProfile) domain.IdentityForm {
	form := domain.IdentityForm{
		FirstName:           p.FirstName,
		LastName:            p.LastName,
		Nationality:         p.Nationality,
		Email:               p.Email,
		Phone:               p.Phone,
		Address:             p.Address,
		Country:             p.Country,
		ProfileTitle:        p.ProfileTitle,
		ProfessionalSummary: p.ProfessionalSummary,
		Sector:              p.Sector,
		MainJob:             p.MainJob,
		YearsOfExperience:   p.YearsOfExperience,
	}
	if p.DateOfBirth != nil {
		form.DateOfBirth = p.DateOfBirth.Format(dateLayout)
	}
	return form
}

// ============================================================================
// Experiences
// ============================================================================

// ExperiencesToDomain converts experience entries for storage. A current
// position never stores an end date, whatever the client sent.
func ExperiencesToDomain(entries []domain.ExperienceEntry) []domain.Experience {
	items := make([]domain.Experience, 0, len(entries))
	for _, e := range entries {
		start, _ := time.Parse(dateLayout, e.StartDate)
		var end *time.Time
		if !e.IsCurrent && e.EndDate != nil && *e.EndDate != "" {
			if t, err := time.Parse(dateLayout, *e.EndDate); err == nil {
				end = &t
			}
		}
		achievements := e.Achievements
		if achievements == nil {
			achievements = []string{}
		}
		items = append(items, domain.Experience{
			Company:      e.Company,
			Position:     e.Position,
			Sector:       e.Sector,
			ContractType: e.ContractType,
			StartDate:    start,
			EndDate:      end,
			IsCurrent:    e.IsCurrent,
			Description:  e.Description,
			Achievements: achievements,
			DocumentID:   e.DocumentID,
		})
	}
	return items
}

func ExperiencesToForm(items []domain.Experience) []domain.ExperienceEntry {
	entries := make([]domain.ExperienceEntry, 0, len(items))
	for _, e := range items {
		entry := domain.ExperienceEntry{
			Company:      e.Company,
			Position:     e.Position,
			Sector:       e.Sector,
			ContractType: e.ContractType,
			StartDate:    e.StartDate.Format(dateLayout),
			IsCurrent:    e.IsCurrent,
			Description:  e.Description,
			Achievements: e.Achievements,
			DocumentID:   e.DocumentID,
		}
		if entry.Achievements == nil {
			entry.Achievements = []string{}
		}
		if e.EndDate != nil {
			s := e.EndDate.Format(dateLayout)
			entry.EndDate = &s
		}
		entries = append(entries, entry)
	}
	return entries
}

// ============================================================================
// Educations
// ============================================================================

func EducationsToDomain(entries []domain.EducationEntry) []domain.Education {
	items := make([]domain.Education, 0, len(entries))
	for _, e := range entries {
		items = append(items, domain.Education{
			Diploma:        e.Diploma,
			Institution:    e.Institution,
			Country:        e.Country,
			StartYear:      e.StartYear,
			GraduationYear: e.GraduationYear,
			Level:          e.Level,
		})
	}
	return items
}

func EducationsToForm(items []domain.Education) []domain.EducationEntry {
	entries := make([]domain.EducationEntry, 0, len(items))
	for _, e := range items {
		entries = append(entries, domain.EducationEntry{
			Diploma:        e.Diploma,
			Institution:    e.Institution,
			Country:        e.Country,
			StartYear:      e.StartYear,
			GraduationYear: e.GraduationYear,
			Level:          e.Level,
		})
	}
	return entries
}

// ============================================================================
// Certifications
// ============================================================================

func CertificationsToDomain(entries []domain.CertificationEntry) []domain.Certification {
	items := make([]domain.Certification, 0, len(entries))
	for _, c := range entries {
		item := domain.Certification{
			Title:           c.Title,
			Issuer:          c.Issuer,
			Year:            c.Year,
			VerificationURL: c.VerificationURL,
		}
		if c.ExpirationDate != nil && *c.ExpirationDate != "" {
			if t, err := time.Parse(dateLayout, *c.ExpirationDate); err == nil {
				item.ExpirationDate = &t
			}
		}
		items = append(items, item)
	}
	return items
}

func CertificationsToForm(items []domain.Certification) []domain.CertificationEntry {
	entries := make([]domain.CertificationEntry, 0, len(items))
	for _, c := range items {
		entry := domain.CertificationEntry{
			Title:           c.Title,
			Issuer:          c.Issuer,
			Year:            c.Year,
			VerificationURL: c.VerificationURL,
		}
		if c.ExpirationDate != nil {
			s := c.ExpirationDate.Format(dateLayout)
			entry.ExpirationDate = &s
		}
		entries = append(entries, entry)
	}
	return entries
}

// ============================================================================
// Skills
// ============================================================================

// SkillsToDomain flattens the three skill inputs into one tagged list, in
// technical, soft, tool order. Soft skills carry no level.
func SkillsToDomain(p *domain.SkillsPayload) []domain.Skill {
	items := make([]domain.Skill, 0, len(p.TechnicalSkills)+len(p.SoftSkills)+len(p.Tools))
	for _, s := range p.TechnicalSkills {
		level := s.Level
		years := s.YearsOfPractice
		items = append(items, domain.Skill{
			Name:            s.Name,
			SkillType:       domain.SkillTechnical,
			Level:           &level,
			YearsOfPractice: &years,
		})
	}
	for _, name := range p.SoftSkills {
		items = append(items, domain.Skill{
			Name:      name,
			SkillType: domain.SkillSoft,
		})
	}
	for _, t := range p.Tools {
		level := t.Level
		items = append(items, domain.Skill{
			Name:      t.Name,
			SkillType: domain.SkillTool,
			Level:     &level,
		})
	}
	return items
}

// SkillsToForm splits the stored list back into the three form groups.
func SkillsToForm(items []domain.Skill) domain.SkillsForm {
	form := domain.SkillsForm{
		TechnicalSkills: []domain.TechnicalSkillEntry{},
		SoftSkills:      []string{},
		Tools:           []domain.ToolEntry{},
	}
	for _, s := range items {
		switch s.SkillType {
		case domain.SkillTechnical:
			entry := domain.TechnicalSkillEntry{Name: s.Name}
			if s.Level != nil {
				entry.Level = *s.Level
			}
			if s.YearsOfPractice != nil {
				entry.YearsOfPractice = *s.YearsOfPractice
			}
			form.TechnicalSkills = append(form.TechnicalSkills, entry)
		case domain.SkillSoft:
			form.SoftSkills = append(form.SoftSkills, s.Name)
		case domain.SkillTool:
			entry := domain.ToolEntry{Name: s.Name}
			if s.Level != nil {
				entry.Level = *s.Level
			}
			form.Tools = append(form.Tools, entry)
		}
	}
	return form
}

// ============================================================================
// Preferences
// ============================================================================

func PreferencesToDomain(p *domain.PreferencesPayload) *domain.JobPreferences {
	prefs := &domain.JobPreferences{
		DesiredPositions: p.DesiredPositions,
		ContractTypes:    p.ContractTypes,
		Sectors:          p.Sectors,
		DesiredLocation:  p.DesiredLocation,
		Mobility:         p.Mobility,
		Availability:     p.Availability,
		SalaryMin:        p.SalaryMin,
		SalaryMax:        p.SalaryMax,
	}
	if prefs.ContractTypes == nil {
		prefs.ContractTypes = []string{}
	}
	if prefs.Sectors == nil {
		prefs.Sectors = []string{}
	}
	return prefs
}

func PreferencesToForm(p *domain.JobPreferences) domain.PreferencesForm {
	form := domain.PreferencesForm{
		DesiredPositions: []string{},
		ContractTypes:    []string{},
		Sectors:          []string{},
	}
	if p == nil {
		return form
	}
	if p.DesiredPositions != nil {
		form.DesiredPositions = p.DesiredPositions
	}
	if p.ContractTypes != nil {
		form.ContractTypes = p.ContractTypes
	}
	if p.Sectors != nil {
		form.Sectors = p.Sectors
	}
	form.DesiredLocation = p.DesiredLocation
	form.Mobility = p.Mobility
	form.Availability = p.Availability
	if p.SalaryMin != nil {
		form.SalaryMin = *p.SalaryMin
	}
	if p.SalaryMax != nil {
		form.SalaryMax = *p.SalaryMax
	}
	return form
}

// ============================================================================
// Full form
// ============================================================================

// BuildFormData maps a full profile to the wizard form. All slices are
// non-nil so the client can index them without guards.
func BuildFormData(full *domain.FullProfile) *domain.FormData {
	form := &domain.FormData{
		Identity:       IdentityToForm(&full.Profile),
		Experiences:    ExperiencesToForm(full.Experiences),
		Educations:     EducationsToForm(full.Educations),
		Certifications: CertificationsToForm(full.Certifications),
		Skills:         SkillsToForm(full.Skills),
		Preferences:    PreferencesToForm(full.Preferences),
	}
	if full.Profile.CVDocumentID != nil {
		form.Documents.CVDocumentID = *full.Profile.CVDocumentID
	}
	if full.Profile.PhotoDocumentID != nil {
		form.Documents.PhotoDocumentID = *full.Profile.PhotoDocumentID
	}
	return form
}
