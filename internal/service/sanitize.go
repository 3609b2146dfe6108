package service

import (
	"strings"
	"unicode"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
)

// Free-text length caps applied before the values reach the PDF, the
// database or outbound mail.
const (
	maxShortField  = 200
	maxLongField   = 4000
	maxAnswerField = 500
)

// sanitizeFormData normalizes all user-entered text in place. It runs
// before any side effect of the submission pipeline.
func sanitizeFormData(form *domain.OnboardingFormData) {
	form.ProjectDetails.ProjectName = sanitizeText(form.ProjectDetails.ProjectName, maxShortField)
	form.ProjectDetails.Description = sanitizeText(form.ProjectDetails.Description, maxLongField)
	form.ProjectDetails.BudgetBucket = sanitizeText(form.ProjectDetails.BudgetBucket, maxShortField)
	form.ProjectDetails.ShootingDate = sanitizeText(form.ProjectDetails.ShootingDate, maxShortField)
	form.ProjectDetails.Deadline = sanitizeText(form.ProjectDetails.Deadline, maxShortField)

	form.ClientInfo.Name = sanitizeText(form.ClientInfo.Name, maxShortField)
	form.ClientInfo.Company = sanitizeText(form.ClientInfo.Company, maxShortField)
	form.ClientInfo.Email = strings.ToLower(sanitizeText(form.ClientInfo.Email, maxShortField))
	form.ClientInfo.Phone = sanitizeText(form.ClientInfo.Phone, maxShortField)
	form.ClientInfo.Street = sanitizeText(form.ClientInfo.Street, maxShortField)
	form.ClientInfo.Zip = sanitizeText(form.ClientInfo.Zip, maxShortField)
	form.ClientInfo.City = sanitizeText(form.ClientInfo.City, maxShortField)

	for key, answer := range form.ServiceAnswers {
		form.ServiceAnswers[key] = sanitizeText(answer, maxAnswerField)
	}
}

// sanitizeText trims surrounding whitespace, drops control characters
// except newlines, collapses runs of spaces and caps the length in
// runes.
func sanitizeText(s string, maxRunes int) string {
	var b strings.Builder
	b.Grow(len(s))

	lastWasSpace := false
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteRune(r)
			lastWasSpace = false
		case unicode.IsControl(r) || r == '\u200b' || r == '\ufeff':
			continue
		case unicode.IsSpace(r):
			if !lastWasSpace {
				b.WriteRune(' ')
			}
			lastWasSpace = true
		default:
			b.WriteRune(r)
			lastWasSpace = false
		}
	}

	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > maxRunes {
		out = strings.TrimSpace(string(runes[:maxRunes]))
	}
	return out
}
