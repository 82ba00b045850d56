package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldError is one field-level validation failure, keyed by the field path
// as the client knows it (camelCase, with list indices).
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	// Identity step
	"FirstName":           "First name",
	"LastName":            "Last name",
	"DateOfBirth":         "Date of birth",
	"Nationality":         "Nationality",
	"Email":               "Email",
	"Phone":               "Phone number",
	"Address":             "Address",
	"Country":             "Country",
	"ProfileTitle":        "Profile title",
	"ProfessionalSummary": "Professional summary",
	"Sector":              "Sector",
	"MainJob":             "Main job",
	"YearsOfExperience":   "Years of experience",

	// Experience step
	"Experiences":  "Experiences",
	"Company":      "Company",
	"Position":     "Position",
	"ContractType": "Contract type",
	"StartDate":    "Start date",
	"EndDate":      "End date",
	"Description":  "Description",
	"Achievements": "Achievements",

	// Education step
	"Educations":     "Education entries",
	"Diploma":        "Diploma",
	"Institution":    "Institution",
	"StartYear":      "Start year",
	"GraduationYear": "Graduation year",
	"Level":          "Level",

	// Certification step
	"Certifications":  "Certifications",
	"Title":           "Title",
	"Issuer":          "Issuer",
	"Year":            "Year",
	"ExpirationDate":  "Expiration date",
	"VerificationURL": "Verification URL",

	// Skills step
	"TechnicalSkills": "Technical skills",
	"SoftSkills":      "Soft skills",
	"Tools":           "Tools",
	"Name":            "Name",
	"YearsOfPractice": "Years of practice",

	// Documents step
	"CVDocumentID":           "CV document",
	"PhotoDocumentID":        "Photo document",
	"CertificateDocumentIDs": "Certificate documents",

	// Preferences step
	"DesiredPositions": "Desired positions",
	"ContractTypes":    "Contract types",
	"Sectors":          "Target sectors",
	"DesiredLocation":  "Desired location",
	"Mobility":         "Mobility",
	"Availability":     "Availability",
	"SalaryMin":        "Minimum salary",
	"SalaryMax":        "Maximum salary",

	// Auth
	"Password": "Password",
}

// FieldErrors converts validator.ValidationErrors to field-keyed messages.
// Never panics: unexpected error types collapse to a single generic entry.
func FieldErrors(err error) []FieldError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, FieldError{
			Field:   jsonFieldPath(e.Namespace()),
			Message: formatSingleError(e),
		})
	}
	return out
}

// Messages flattens FieldErrors to plain strings for logs.
func Messages(err error) []string {
	fieldErrs := FieldErrors(err)
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return msgs
}

// formatSingleError formats a single validation error to a user-facing message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must have at least %s entries", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must have at most %s entries", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Split(param, " "), ", "))

	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)

	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)

	case "uuid":
		return fmt.Sprintf("%s is not a valid identifier", label)

	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", label)

	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and common punctuation", label)

	case "valid_phone":
		return fmt.Sprintf("%s must be 10-15 digits, with or without a leading +", label)

	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or special symbols", label)

	case "max_current_year":
		return fmt.Sprintf("%s cannot be in the future", label)

	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-facing label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

// jsonFieldPath converts a validator namespace like
// "ExperiencesPayload.Experiences[0].StartDate" into the client-side field
// path "experiences[0].startDate". The leading struct name is dropped and
// each segment is lower-camelcased, matching our json tags.
func jsonFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:] // Drop the root struct name
	}
	for i, p := range parts {
		parts[i] = lowerFirst(p)
	}
	return strings.Join(parts, ".")
}

// lowerFirst lowercases the leading run of uppercase letters, so both
// "StartDate" -> "startDate" and "CVDocumentID" -> "cvDocumentID".
func lowerFirst(s string) string {
	runes := []rune(s)
	for i := 0; i < len(runes) && unicode.IsUpper(runes[i]); i++ {
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
