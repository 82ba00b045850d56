package validation_test

import (
	"testing"

	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func TestFieldErrors(t *testing.T) {
	v := newValidator()

	t.Run("Should key nested errors by the client field path", func(t *testing.T) {
		payload := domain.ExperiencesPayload{
			Experiences: []domain.ExperienceEntry{
				{Company: "Acme", Position: "Dev", StartDate: "2020-01-01"},
				{Position: "Dev", StartDate: "not-a-date"},
			},
		}

		err := v.Struct(&payload)
		assert.Error(t, err)

		errs := validation.FieldErrors(err)
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		assert.Contains(t, fields, "experiences[1].company")
		assert.Contains(t, fields, "experiences[1].startDate")
	})

	t.Run("Should use user-facing labels in messages", func(t *testing.T) {
		err := v.Struct(&domain.ExperiencesPayload{})
		assert.Error(t, err)

		errs := validation.FieldErrors(err)
		assert.Len(t, errs, 1)
		assert.Equal(t, "experiences", errs[0].Field)
		assert.Contains(t, errs[0].Message, "Experiences")
	})

	t.Run("Should collapse non-validator errors to a single entry", func(t *testing.T) {
		errs := validation.FieldErrors(assert.AnError)
		assert.Len(t, errs, 1)
		assert.Equal(t, "", errs[0].Field)
	})
}

func TestCustomValidators(t *testing.T) {
	v := newValidator()

	t.Run("Should accept accented names and reject markup", func(t *testing.T) {
		type form struct {
			Name string `validate:"valid_name"`
		}
		assert.NoError(t, v.Struct(&form{Name: "Jean-Pierre O'Connor"}))
		assert.Error(t, v.Struct(&form{Name: "<script>alert(1)</script>"}))
	})

	t.Run("Should validate phone formats", func(t *testing.T) {
		type form struct {
			Phone string `validate:"valid_phone"`
		}
		assert.NoError(t, v.Struct(&form{Phone: "+33612345678"}))
		assert.Error(t, v.Struct(&form{Phone: "call me"}))
	})

	t.Run("Should reject emoji in free text", func(t *testing.T) {
		type form struct {
			Summary string `validate:"no_emoji"`
		}
		assert.NoError(t, v.Struct(&form{Summary: "A plain professional summary."}))
		assert.Error(t, v.Struct(&form{Summary: "Great dev \U0001F680"}))
	})

	t.Run("Should reject years in the future", func(t *testing.T) {
		type form struct {
			Year int `validate:"omitempty,max_current_year"`
		}
		assert.NoError(t, v.Struct(&form{Year: 2020}))
		assert.Error(t, v.Struct(&form{Year: 3000}))
	})
}
