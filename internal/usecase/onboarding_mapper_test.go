package usecase_test

import (
	"testing"
	"time"

	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestExperienceMapping(t *testing.T) {
	t.Run("Should round-trip a past position", func(t *testing.T) {
		entries := []domain.ExperienceEntry{
			{
				Company:      "Acme",
				Position:     "Backend Engineer",
				Sector:       "Software",
				ContractType: "CDI",
				StartDate:    "2019-03-01",
				EndDate:      strPtr("2022-06-30"),
				IsCurrent:    false,
				Description:  "Built APIs",
				Achievements: []string{"Shipped v2"},
			},
		}

		back := usecase.ExperiencesToForm(usecase.ExperiencesToDomain(entries))
		assert.Equal(t, entries, back)
	})

	t.Run("Should drop the end date of a current position", func(t *testing.T) {
		entries := []domain.ExperienceEntry{
			{
				Company:   "Acme",
				Position:  "Backend Engineer",
				StartDate: "2023-01-15",
				EndDate:   strPtr("2024-01-15"), // client bug, must not survive
				IsCurrent: true,
			},
		}

		items := usecase.ExperiencesToDomain(entries)
		assert.Nil(t, items[0].EndDate)
		assert.True(t, items[0].IsCurrent)

		back := usecase.ExperiencesToForm(items)
		assert.Nil(t, back[0].EndDate)
	})

	t.Run("Should never return nil achievements", func(t *testing.T) {
		entries := []domain.ExperienceEntry{
			{Company: "Acme", Position: "Dev", StartDate: "2020-01-01", IsCurrent: true},
		}

		items := usecase.ExperiencesToDomain(entries)
		assert.NotNil(t, items[0].Achievements)

		back := usecase.ExperiencesToForm([]domain.Experience{{Company: "Acme"}})
		assert.NotNil(t, back[0].Achievements)
	})
}

func TestSkillsMapping(t *testing.T) {
	payload := &domain.SkillsPayload{
		TechnicalSkills: []domain.TechnicalSkillEntry{
			{Name: "Go", Level: domain.SkillLevelAdvanced, YearsOfPractice: 5},
			{Name: "PostgreSQL", Level: domain.SkillLevelIntermediate, YearsOfPractice: 3},
		},
		SoftSkills: []string{"Communication"},
		Tools: []domain.ToolEntry{
			{Name: "Docker", Level: domain.SkillLevelExpert},
		},
	}

	t.Run("Should flatten in technical, soft, tool order", func(t *testing.T) {
		items := usecase.SkillsToDomain(payload)
		assert.Len(t, items, 4)
		assert.Equal(t, domain.SkillTechnical, items[0].SkillType)
		assert.Equal(t, domain.SkillTechnical, items[1].SkillType)
		assert.Equal(t, domain.SkillSoft, items[2].SkillType)
		assert.Equal(t, domain.SkillTool, items[3].SkillType)
	})

	t.Run("Should not attach a level to soft skills", func(t *testing.T) {
		items := usecase.SkillsToDomain(payload)
		assert.Nil(t, items[2].Level)
		assert.Nil(t, items[2].YearsOfPractice)
	})

	t.Run("Should track years of practice only for technical skills", func(t *testing.T) {
		items := usecase.SkillsToDomain(payload)
		assert.NotNil(t, items[0].YearsOfPractice)
		assert.Equal(t, 5, *items[0].YearsOfPractice)
		assert.Nil(t, items[3].YearsOfPractice)
		assert.NotNil(t, items[3].Level)
	})

	t.Run("Should split back into the three form groups", func(t *testing.T) {
		form := usecase.SkillsToForm(usecase.SkillsToDomain(payload))
		assert.Equal(t, payload.TechnicalSkills, form.TechnicalSkills)
		assert.Equal(t, payload.SoftSkills, form.SoftSkills)
		assert.Equal(t, payload.Tools, form.Tools)
	})
}

func TestIdentityMapping(t *testing.T) {
	t.Run("Should leave nil fields out of the update", func(t *testing.T) {
		upd := usecase.IdentityToUpdate(&domain.IdentityPayload{
			FirstName: strPtr("Ada"),
		})
		assert.NotNil(t, upd.FirstName)
		assert.Nil(t, upd.LastName)
		assert.Nil(t, upd.Phone)
		assert.Nil(t, upd.DateOfBirth)
	})

	t.Run("Should parse the date of birth", func(t *testing.T) {
		upd := usecase.IdentityToUpdate(&domain.IdentityPayload{
			DateOfBirth: strPtr("1990-05-20"),
		})
		assert.NotNil(t, upd.DateOfBirth)
		assert.Equal(t, 1990, upd.DateOfBirth.Year())
	})

	t.Run("Should map stored profile back with zero fallbacks", func(t *testing.T) {
		dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
		form := usecase.IdentityToForm(&domain.CandidateProfile{
			FirstName:   "Ada",
			DateOfBirth: &dob,
		})
		assert.Equal(t, "Ada", form.FirstName)
		assert.Equal(t, "1990-05-20", form.DateOfBirth)
		assert.Equal(t, "", form.Phone)
		assert.Equal(t, 0, form.YearsOfExperience)
	})
}

func TestBuildFormData(t *testing.T) {
	t.Run("Should return non-nil slices for an empty profile", func(t *testing.T) {
		form := usecase.BuildFormData(&domain.FullProfile{})
		assert.NotNil(t, form.Experiences)
		assert.NotNil(t, form.Educations)
		assert.NotNil(t, form.Certifications)
		assert.NotNil(t, form.Skills.TechnicalSkills)
		assert.NotNil(t, form.Skills.SoftSkills)
		assert.NotNil(t, form.Skills.Tools)
		assert.NotNil(t, form.Preferences.DesiredPositions)
	})

	t.Run("Should surface document references", func(t *testing.T) {
		form := usecase.BuildFormData(&domain.FullProfile{
			Profile: domain.CandidateProfile{
				CVDocumentID:    strPtr("cv-id"),
				PhotoDocumentID: strPtr("photo-id"),
			},
		})
		assert.Equal(t, "cv-id", form.Documents.CVDocumentID)
		assert.Equal(t, "photo-id", form.Documents.PhotoDocumentID)
	})
}
