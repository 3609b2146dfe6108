package wizard

import "github.com/napoleonmm83/emmotion-api/internal/pricing"

// QuestionType determines how a service question is rendered and validated.
type QuestionType string

const (
	QuestionTypeText   QuestionType = "text"
	QuestionTypeSelect QuestionType = "select"
	QuestionTypeEmail  QuestionType = "email"
	QuestionTypeDate   QuestionType = "date"
	QuestionTypeNumber QuestionType = "number"
)

// Condition gates a question on a previously given answer.
type Condition struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

// Question is one service-specific question in the wizard's second step.
// Questions normally come from the content store; the built-in sets below
// double as the fallback when the store is unreachable.
type Question struct {
	ID            string       `json:"id"`
	Label         string       `json:"label"`
	Type          QuestionType `json:"type"`
	Required      bool         `json:"required"`
	Options       []string     `json:"options,omitempty"`
	ConditionalOn *Condition   `json:"conditionalOn,omitempty"`
}

// DefaultQuestions returns the built-in question sets per service category.
func DefaultQuestions() map[pricing.ServiceType][]Question {
	return map[pricing.ServiceType][]Question{
		pricing.ServiceImagefilm: {
			{ID: "target_audience", Label: "Wer ist die Zielgruppe des Films?", Type: QuestionTypeText, Required: true},
			{ID: "locations", Label: "Wie viele Drehorte sind geplant?", Type: QuestionTypeSelect, Required: true, Options: []string{"1", "2-3", "mehr als 3"}},
			{ID: "interviews", Label: "Sollen Interviews enthalten sein?", Type: QuestionTypeSelect, Required: true, Options: []string{"ja", "nein"}},
			{ID: "interview_count", Label: "Wie viele Interviewpartner?", Type: QuestionTypeNumber, Required: true,
				ConditionalOn: &Condition{QuestionID: "interviews", Value: "ja"}},
		},
		pricing.ServiceEventvideo: {
			{ID: "event_type", Label: "Um welche Art von Event handelt es sich?", Type: QuestionTypeText, Required: true},
			{ID: "event_duration", Label: "Wie lange dauert das Event?", Type: QuestionTypeSelect, Required: true, Options: []string{"halber Tag", "ganzer Tag", "mehrere Tage"}},
			{ID: "highlight_video", Label: "Wird ein Highlight-Video gewünscht?", Type: QuestionTypeSelect, Required: false, Options: []string{"ja", "nein"}},
		},
		pricing.ServiceSocialMedia: {
			{ID: "platforms", Label: "Für welche Plattformen produzieren wir?", Type: QuestionTypeText, Required: true},
			{ID: "video_count", Label: "Wie viele Videos werden benötigt?", Type: QuestionTypeSelect, Required: true, Options: []string{"1", "2-5", "laufende Serie"}},
		},
		pricing.ServiceDrone: {
			{ID: "location_type", Label: "Wo soll geflogen werden?", Type: QuestionTypeText, Required: true},
			{ID: "permit_needed", Label: "Liegt eine Aufstiegsbewilligung vor?", Type: QuestionTypeSelect, Required: true, Options: []string{"ja", "nein", "unklar"}},
		},
		pricing.ServiceProductVideo: {
			{ID: "product_count", Label: "Wie viele Produkte werden gezeigt?", Type: QuestionTypeNumber, Required: true},
			{ID: "studio", Label: "Studio- oder On-Location-Dreh?", Type: QuestionTypeSelect, Required: true, Options: []string{"Studio", "On Location", "beides"}},
		},
		pricing.ServicePostProduction: {
			{ID: "footage_source", Label: "Woher stammt das Rohmaterial?", Type: QuestionTypeText, Required: true},
			{ID: "footage_hours", Label: "Wie viele Stunden Rohmaterial liegen vor?", Type: QuestionTypeNumber, Required: true},
			{ID: "color_grading", Label: "Wird Color Grading gewünscht?", Type: QuestionTypeSelect, Required: false, Options: []string{"ja", "nein"}},
		},
	}
}
