package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Imagefilm Muster", sanitizeText("  Imagefilm   Muster \t", 200))
	assert.Equal(t, "Zeile 1\nZeile 2", sanitizeText("Zeile 1\nZeile 2", 200))
	assert.Equal(t, "kein Steuerzeichen", sanitizeText("kein\x00 Steuer\x07zeichen\x1b", 200))
	assert.Equal(t, "abc", sanitizeText("\u200babc\ufeff", 200))
	assert.Equal(t, "", sanitizeText("   \t  ", 200))

	long := strings.Repeat("ä", 300)
	assert.Equal(t, 50, len([]rune(sanitizeText(long, 50))))
}

func TestSanitizeFormDataNormalizesAllTextFields(t *testing.T) {
	form := domain.OnboardingFormData{
		ProjectDetails: domain.ProjectDetails{
			ProjectName: "  Imagefilm\x00 Muster  ",
			Description: "Mit    viel   Abstand",
		},
		ClientInfo: domain.ClientInfo{
			Name:  " Martina  Muster ",
			Email: " Martina@Muster-Zimmerei.CH ",
		},
		ServiceAnswers: map[string]string{
			"target_audience": "  Neukunden\x07  ",
		},
	}

	sanitizeFormData(&form)

	assert.Equal(t, "Imagefilm Muster", form.ProjectDetails.ProjectName)
	assert.Equal(t, "Mit viel Abstand", form.ProjectDetails.Description)
	assert.Equal(t, "Martina Muster", form.ClientInfo.Name)
	assert.Equal(t, "martina@muster-zimmerei.ch", form.ClientInfo.Email)
	assert.Equal(t, "Neukunden", form.ServiceAnswers["target_audience"])
}
