package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/vidhiq/vidhiq-backend/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// countryRule describes the dial codes we accept and the shape of the
// national number that follows.
type countryRule struct {
	DialCode      string
	Country       string
	MinDigits     int
	MaxDigits     int
	LeadingDigits string // allowed first digits of the national number, "" = any
}

// Longest dial codes first so prefix matching stays correct as codes are added.
var countryRules = []countryRule{
	{"+971", "United Arab Emirates", 9, 9, "5"},
	{"+91", "India", 10, 10, "6789"},
	{"+44", "United Kingdom", 10, 10, "7"},
	{"+61", "Australia", 9, 9, "4"},
	{"+65", "Singapore", 8, 8, ""},
	{"+1", "United States/Canada", 10, 10, ""},
}

// ValidateLead checks shape and business rules of an inbound lead payload.
// It returns the normalized E.164 phone number and every violated field.
func ValidateLead(input SubmitLeadInput) (string, []ValidationError) {
	var errors []ValidationError

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(name) < 2 {
		errors = append(errors, ValidationError{"name", "must have at least 2 characters"})
	} else if len(name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Location) == "" {
		errors = append(errors, ValidationError{"location", "is required"})
	}

	phone, phoneErr := NormalizePhone(input.WhatsAppNumber)
	if phoneErr != "" {
		errors = append(errors, ValidationError{"whatsappNumber", phoneErr})
	}

	if strings.TrimSpace(input.Service) == "" {
		errors = append(errors, ValidationError{"service", "is required"})
	} else if !entity.IsValidService(input.Service) {
		errors = append(errors, ValidationError{"service", "must be one of: " + strings.Join(entity.ServiceTypes, ", ")})
	}

	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if len(input.Description) > 2000 {
		errors = append(errors, ValidationError{"description", "must not exceed 2000 characters"})
	}

	return phone, errors
}

var nonDigit = regexp.MustCompile(`\D`)

// NormalizePhone validates an international number against the country table
// and returns it as +<dialcode><national digits>. The second return value is
// an empty string on success, otherwise the reason the number was rejected.
func NormalizePhone(raw string) (string, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", "is required"
	}

	// Accept "00" as the international prefix, everything else must carry "+".
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	if !strings.HasPrefix(s, "+") {
		return "", "must include an international dial code (e.g. +91)"
	}

	cleaned := "+" + nonDigit.ReplaceAllString(s[1:], "")

	for _, rule := range countryRules {
		if !strings.HasPrefix(cleaned, rule.DialCode) {
			continue
		}

		national := cleaned[len(rule.DialCode):]
		if len(national) < rule.MinDigits || len(national) > rule.MaxDigits {
			if rule.MinDigits == rule.MaxDigits {
				return "", fmt.Sprintf("%s numbers must have %d digits after %s", rule.Country, rule.MinDigits, rule.DialCode)
			}
			return "", fmt.Sprintf("%s numbers must have %d-%d digits after %s", rule.Country, rule.MinDigits, rule.MaxDigits, rule.DialCode)
		}

		if rule.LeadingDigits != "" && !strings.ContainsRune(rule.LeadingDigits, rune(national[0])) {
			return "", fmt.Sprintf("%s mobile numbers must start with one of %s", rule.Country, expandDigitSet(rule.LeadingDigits))
		}

		return cleaned, ""
	}

	return "", "dial code is not supported"
}

func expandDigitSet(digits string) string {
	parts := make([]string, 0, len(digits))
	for _, d := range digits {
		parts = append(parts, string(d))
	}
	return strings.Join(parts, ", ")
}
