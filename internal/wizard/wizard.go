// Package wizard implements the onboarding flow's step state machine: an
// ordered sequence of validated steps accumulating OnboardingFormData. The
// machine is pure state plus transition functions; it renders nothing and
// performs no I/O, so it can be driven identically by HTTP handlers and
// tests.
package wizard

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
)

// Step identifies a wizard step, 1-indexed in wizard order.
type Step int

const (
	StepProjectDetails Step = iota + 1
	StepServiceQuestions
	StepExtras
	StepContactInfo
	StepContractReview
	StepSignature

	// StepCount is the number of steps; StepSignature is terminal.
	StepCount = int(StepSignature)
)

// String returns the step's stable identifier.
func (s Step) String() string {
	switch s {
	case StepProjectDetails:
		return "project_details"
	case StepServiceQuestions:
		return "service_questions"
	case StepExtras:
		return "extras"
	case StepContactInfo:
		return "contact_info"
	case StepContractReview:
		return "contract_review"
	case StepSignature:
		return "signature"
	}
	return fmt.Sprintf("step_%d", int(s))
}

var validate = validator.New()

// Wizard is the multi-step onboarding state machine. One instance belongs to
// exactly one client session; there is no shared state and no locking.
type Wizard struct {
	currentStep Step
	form        domain.OnboardingFormData
	questions   []Question
	fieldErrors []string
}

// New starts a wizard session for a service category. The question set is
// the service-specific list from the content snapshot (or the built-in
// default for that service).
func New(serviceType pricing.ServiceType, questions []Question) *Wizard {
	return &Wizard{
		currentStep: StepProjectDetails,
		form:        defaultFormData(serviceType),
		questions:   questions,
	}
}

func defaultFormData(serviceType pricing.ServiceType) domain.OnboardingFormData {
	return domain.OnboardingFormData{
		ServiceType:    serviceType,
		Extras:         make(map[pricing.ExtraID]bool),
		ServiceAnswers: make(map[string]string),
	}
}

// CurrentStep returns the active step.
func (w *Wizard) CurrentStep() Step {
	return w.currentStep
}

// FormData returns a pointer to the accumulated form data for mutation by
// the caller between transitions.
func (w *Wizard) FormData() *domain.OnboardingFormData {
	return &w.form
}

// FieldErrors returns the failing field identifiers from the last rejected
// Advance, for inline display.
func (w *Wizard) FieldErrors() []string {
	return w.fieldErrors
}

// Advance validates the current step. On failure the step does not change
// and the failing field identifiers are returned. On success the wizard
// moves forward (capped at the signature step) and the error set clears.
func (w *Wizard) Advance() []string {
	invalid := w.validateStep(w.currentStep)
	if len(invalid) > 0 {
		w.fieldErrors = invalid
		return invalid
	}

	w.fieldErrors = nil
	if int(w.currentStep) < StepCount {
		w.currentStep++
	}
	return nil
}

// Retreat moves one step back without validation, floored at the first step.
func (w *Wizard) Retreat() {
	if w.currentStep > StepProjectDetails {
		w.currentStep--
	}
	w.fieldErrors = nil
}

// JumpTo moves directly to an earlier (or the current) step. Skipping ahead
// past unvalidated steps is not permitted.
func (w *Wizard) JumpTo(step Step) error {
	if step < StepProjectDetails || int(step) > StepCount {
		return fmt.Errorf("step %d out of range", step)
	}
	if step > w.currentStep {
		return fmt.Errorf("cannot skip ahead to %s from %s", step, w.currentStep)
	}
	w.currentStep = step
	w.fieldErrors = nil
	return nil
}

// SetServiceType switches the wizard to a different service category. All
// state conditioned on the previous category (duration, complexity, extras,
// service answers) resets to defaults; project details and contact info are
// service-independent and survive.
func (w *Wizard) SetServiceType(serviceType pricing.ServiceType, questions []Question) {
	if serviceType == w.form.ServiceType {
		return
	}
	w.form.ServiceType = serviceType
	w.form.Duration = ""
	w.form.Complexity = ""
	w.form.Extras = make(map[pricing.ExtraID]bool)
	w.form.ServiceAnswers = make(map[string]string)
	w.form.TermsAccepted = false
	w.questions = questions
	w.fieldErrors = nil
}

// VisibleQuestions returns the service questions whose conditions are met by
// the current answers. Hidden questions are excluded from rendering and from
// validation alike.
func (w *Wizard) VisibleQuestions() []Question {
	visible := make([]Question, 0, len(w.questions))
	for _, q := range w.questions {
		if q.ConditionalOn != nil && w.form.ServiceAnswers[q.ConditionalOn.QuestionID] != q.ConditionalOn.Value {
			continue
		}
		visible = append(visible, q)
	}
	return visible
}

func (w *Wizard) validateStep(step Step) []string {
	switch step {
	case StepProjectDetails:
		return w.validateProjectDetails()
	case StepServiceQuestions:
		return w.validateServiceQuestions()
	case StepExtras:
		// Extras are all optional.
		return nil
	case StepContactInfo:
		return w.validateContactInfo()
	case StepContractReview:
		if !w.form.TermsAccepted {
			return []string{"termsAccepted"}
		}
		return nil
	case StepSignature:
		// Submission itself is validated server side by the orchestrator.
		return nil
	}
	return nil
}

func (w *Wizard) validateProjectDetails() []string {
	var invalid []string
	if w.form.ProjectDetails.ProjectName == "" {
		invalid = append(invalid, "projectName")
	}
	if w.form.ProjectDetails.Description == "" {
		invalid = append(invalid, "description")
	}
	if w.form.ProjectDetails.BudgetBucket == "" {
		invalid = append(invalid, "budgetBucket")
	}
	return invalid
}

func (w *Wizard) validateServiceQuestions() []string {
	var invalid []string
	if !w.form.Duration.IsValid() {
		invalid = append(invalid, "duration")
	}
	if !w.form.Complexity.IsValid() {
		invalid = append(invalid, "complexity")
	}
	for _, q := range w.VisibleQuestions() {
		answer := w.form.ServiceAnswers[q.ID]
		if q.Required && answer == "" {
			invalid = append(invalid, q.ID)
			continue
		}
		if answer != "" && q.Type == QuestionTypeEmail {
			if err := validate.Var(answer, "email"); err != nil {
				invalid = append(invalid, q.ID)
			}
		}
	}
	return invalid
}

func (w *Wizard) validateContactInfo() []string {
	var invalid []string
	info := w.form.ClientInfo
	if info.Name == "" {
		invalid = append(invalid, "name")
	}
	if info.Email == "" || validate.Var(info.Email, "email") != nil {
		invalid = append(invalid, "email")
	}
	if info.Phone == "" {
		invalid = append(invalid, "phone")
	}
	if info.Street == "" {
		invalid = append(invalid, "street")
	}
	if info.Zip == "" {
		invalid = append(invalid, "zip")
	}
	if info.City == "" {
		invalid = append(invalid, "city")
	}
	return invalid
}
