package content

import (
	"time"

	"github.com/napoleonmm83/emmotion-api/internal/pricing"
	"github.com/napoleonmm83/emmotion-api/internal/wizard"
)

// Clause is one section of the production contract text.
type Clause struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Snapshot is one versioned set of business content: the pricing rule
// tables, the per-service wizard questions and the contract clauses.
// Snapshots are immutable once fetched; the cache swaps whole snapshots.
type Snapshot struct {
	Rules           pricing.RuleTables                          `json:"rules"`
	Questions       map[pricing.ServiceType][]wizard.Question   `json:"questions"`
	Clauses         []Clause                                    `json:"clauses"`
	ContractVersion string                                      `json:"contractVersion"`
	FetchedAt       time.Time                                   `json:"fetchedAt"`
}

// QuestionsFor returns the question set for a service type, falling back
// to the built-in defaults when the snapshot carries none for it.
func (s *Snapshot) QuestionsFor(serviceType pricing.ServiceType) []wizard.Question {
	if qs, ok := s.Questions[serviceType]; ok && len(qs) > 0 {
		return qs
	}
	return wizard.DefaultQuestions()[serviceType]
}

// DefaultContractVersion identifies the built-in contract text. Remote
// snapshots carry their own version string.
const DefaultContractVersion = "2025-01"

// DefaultSnapshot returns the built-in content used when the content
// store has never been reachable.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Rules:           pricing.DefaultRuleTables(),
		Questions:       wizard.DefaultQuestions(),
		Clauses:         DefaultClauses(),
		ContractVersion: DefaultContractVersion,
		FetchedAt:       time.Time{},
	}
}

// DefaultClauses returns the built-in contract clauses.
func DefaultClauses() []Clause {
	return []Clause{
		{
			Title: "Leistungsumfang",
			Body: "emmotion erbringt die im Angebot beschriebenen Videoproduktions-Leistungen. " +
				"Der Leistungsumfang ergibt sich aus der gewählten Konfiguration und den im Vertrag " +
				"aufgeführten Zusatzleistungen.",
		},
		{
			Title: "Zahlungsbedingungen",
			Body: "Die Anzahlung ist innert 10 Tagen nach Vertragsabschluss fällig. Der Restbetrag " +
				"ist innert 30 Tagen nach Lieferung des Endprodukts zu begleichen. Alle Preise " +
				"verstehen sich in Schweizer Franken (CHF).",
		},
		{
			Title: "Lieferung und Abnahme",
			Body: "Die voraussichtliche Lieferzeit ist eine Schätzung und beginnt mit dem Drehtermin " +
				"beziehungsweise der Anlieferung des Rohmaterials. Eine Korrekturschlaufe ist im " +
				"Preis inbegriffen.",
		},
		{
			Title: "Nutzungsrechte",
			Body: "Mit vollständiger Bezahlung erhält der Kunde die zeitlich und räumlich " +
				"unbeschränkten Nutzungsrechte am Endprodukt. Das Rohmaterial verbleibt bei emmotion.",
		},
		{
			Title: "Stornierung",
			Body: "Bei Stornierung bis 14 Tage vor dem Drehtermin wird die Anzahlung abzüglich " +
				"bereits erbrachter Leistungen zurückerstattet. Bei späterer Stornierung bleibt die " +
				"Anzahlung geschuldet.",
		},
	}
}
