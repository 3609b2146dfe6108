package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/content"
	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
)

// ContractData carries everything the contract document needs. The
// pricing result must be the server-computed one, never client input.
type ContractData struct {
	SubmissionID    string
	FormData        domain.OnboardingFormData
	Pricing         pricing.Result
	Clauses         []content.Clause
	ContractVersion string
	SignaturePNG    []byte
	SignatureType   string
	SignedAt        time.Time
}

// Renderer produces the signed production contract as a PDF document.
type Renderer struct {
	companyName    string
	companyAddress string
	logger         *zap.Logger
}

// NewRenderer creates a contract renderer with the issuing company's
// letterhead details.
func NewRenderer(companyName, companyAddress string, logger *zap.Logger) *Renderer {
	return &Renderer{
		companyName:    companyName,
		companyAddress: companyAddress,
		logger:         logger,
	}
}

// Render produces the contract PDF. It is a pure function of its input;
// any error leaves no partial output behind.
func (r *Renderer) Render(data ContractData) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(tr("Produktionsvertrag "+data.FormData.ProjectDetails.ProjectName), true)
	doc.SetAuthor(r.companyName, true)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 25)

	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.SetTextColor(128, 128, 128)
		doc.CellFormat(0, 10,
			tr(fmt.Sprintf("Vertragsversion %s | Referenz %s | Seite %d",
				data.ContractVersion, data.SubmissionID, doc.PageNo())),
			"", 0, "C", false, 0, "")
	})

	doc.AddPage()
	r.renderHeader(doc, tr)
	r.renderParties(doc, tr, data)
	r.renderProject(doc, tr, data)
	r.renderPricing(doc, tr, data)
	r.renderClauses(doc, tr, data.Clauses)
	if err := r.renderSignature(doc, tr, data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render contract pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderHeader(doc *gofpdf.Fpdf, tr func(string) string) {
	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(30, 30, 30)
	doc.CellFormat(0, 10, tr(r.companyName), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(100, 100, 100)
	doc.CellFormat(0, 5, tr(r.companyAddress), "", 1, "L", false, 0, "")
	doc.Ln(6)
	doc.SetFont("Helvetica", "B", 14)
	doc.SetTextColor(30, 30, 30)
	doc.CellFormat(0, 8, tr("Produktionsvertrag"), "B", 1, "L", false, 0, "")
	doc.Ln(4)
}

func (r *Renderer) renderParties(doc *gofpdf.Fpdf, tr func(string) string, data ContractData) {
	client := data.FormData.ClientInfo
	r.sectionTitle(doc, tr, "Vertragsparteien")

	doc.SetFont("Helvetica", "", 10)
	name := client.Name
	if client.Company != "" {
		name = client.Company + ", " + client.Name
	}
	lines := []string{
		"Auftraggeber: " + name,
		client.Street + ", " + client.Zip + " " + client.City,
		client.Email + " / " + client.Phone,
		"",
		"Auftragnehmer: " + r.companyName + ", " + r.companyAddress,
	}
	for _, line := range lines {
		doc.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	doc.Ln(4)
}

func (r *Renderer) renderProject(doc *gofpdf.Fpdf, tr func(string) string, data ContractData) {
	project := data.FormData.ProjectDetails
	r.sectionTitle(doc, tr, "Projekt")

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(0, 5, tr(project.ProjectName), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, tr(project.Description), "", "L", false)
	doc.Ln(2)

	if project.ShootingDate != "" {
		doc.CellFormat(0, 5, tr("Gewünschter Drehtermin: "+project.ShootingDate), "", 1, "L", false, 0, "")
	}
	if project.Deadline != "" {
		doc.CellFormat(0, 5, tr("Gewünschte Deadline: "+project.Deadline), "", 1, "L", false, 0, "")
	}
	doc.CellFormat(0, 5,
		tr(fmt.Sprintf("Voraussichtliche Lieferzeit: ca. %d Tage ab Drehtermin", data.Pricing.EstimatedDays)),
		"", 1, "L", false, 0, "")
	doc.Ln(4)
}

func (r *Renderer) renderPricing(doc *gofpdf.Fpdf, tr func(string) string, data ContractData) {
	r.sectionTitle(doc, tr, "Leistungen und Preise")

	doc.SetFont("Helvetica", "", 10)
	for _, line := range data.Pricing.Breakdown {
		doc.CellFormat(130, 6, tr(line.Item), "B", 0, "L", false, 0, "")
		doc.CellFormat(40, 6, tr(formatCHF(line.Price)), "B", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(130, 8, tr("Gesamtpreis"), "", 0, "L", false, 0, "")
	doc.CellFormat(40, 8, tr(formatCHF(data.Pricing.TotalPrice)), "", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(130, 6,
		tr(fmt.Sprintf("Anzahlung (%d%%), fällig bei Vertragsabschluss", data.Pricing.DepositPercentage)),
		"", 0, "L", false, 0, "")
	doc.CellFormat(40, 6, tr(formatCHF(data.Pricing.DepositAmount)), "", 1, "R", false, 0, "")
	doc.CellFormat(130, 6, tr("Restbetrag, fällig nach Lieferung"), "", 0, "L", false, 0, "")
	doc.CellFormat(40, 6, tr(formatCHF(data.Pricing.RemainingAmount)), "", 1, "R", false, 0, "")
	doc.Ln(4)
}

func (r *Renderer) renderClauses(doc *gofpdf.Fpdf, tr func(string) string, clauses []content.Clause) {
	r.sectionTitle(doc, tr, "Vertragsbedingungen")

	for i, clause := range clauses {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(0, 6, tr(fmt.Sprintf("%d. %s", i+1, clause.Title)), "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 9)
		doc.MultiCell(0, 4.5, tr(clause.Body), "", "L", false)
		doc.Ln(2)
	}
}

func (r *Renderer) renderSignature(doc *gofpdf.Fpdf, tr func(string) string, data ContractData) error {
	r.sectionTitle(doc, tr, "Unterschrift")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5,
		tr(fmt.Sprintf("Elektronisch unterzeichnet am %s durch %s.",
			data.SignedAt.Format("02.01.2006 15:04"), data.FormData.ClientInfo.Name)),
		"", 1, "L", false, 0, "")
	doc.Ln(2)

	if len(data.SignaturePNG) > 0 {
		imageType := data.SignatureType
		if imageType == "" {
			imageType = "PNG"
		}
		opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
		doc.RegisterImageOptionsReader("signature", opts, bytes.NewReader(data.SignaturePNG))
		if doc.Err() {
			return fmt.Errorf("failed to embed signature image: %w", doc.Error())
		}
		doc.ImageOptions("signature", doc.GetX(), doc.GetY(), 60, 0, true, opts, 0, "")
	}
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(60, 5, "", "T", 1, "L", false, 0, "")
	doc.CellFormat(60, 5, tr(data.FormData.ClientInfo.Name), "", 1, "L", false, 0, "")
	return nil
}

func (r *Renderer) sectionTitle(doc *gofpdf.Fpdf, tr func(string) string, title string) {
	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(30, 30, 30)
	doc.CellFormat(0, 7, tr(title), "", 1, "L", false, 0, "")
	doc.Ln(1)
}

// formatCHF renders an integer CHF amount with Swiss thousands
// separators, e.g. 12400 becomes "CHF 12'400".
func formatCHF(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return "CHF " + sign + strings.Join(groups, "'")
}

// DecodeSignatureDataURL decodes a browser canvas data URL into raw
// image bytes plus the gofpdf image type tag. Only PNG and JPEG are
// accepted.
func DecodeSignatureDataURL(dataURL string) ([]byte, string, error) {
	var imageType string
	var encoded string
	switch {
	case strings.HasPrefix(dataURL, "data:image/png;base64,"):
		imageType = "PNG"
		encoded = strings.TrimPrefix(dataURL, "data:image/png;base64,")
	case strings.HasPrefix(dataURL, "data:image/jpeg;base64,"):
		imageType = "JPG"
		encoded = strings.TrimPrefix(dataURL, "data:image/jpeg;base64,")
	default:
		return nil, "", fmt.Errorf("unsupported signature data url format")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode signature image: %w", err)
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("signature image is empty")
	}
	return raw, imageType, nil
}
