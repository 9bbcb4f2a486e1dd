package services

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/startrack/intake-backend/internal/config"
	"github.com/startrack/intake-backend/internal/models"
)

type DocumentService struct {
	config *config.Config
}

func NewDocumentService(cfg *config.Config) *DocumentService {
	return &DocumentService{config: cfg}
}

const dateLayout = "2 January 2006"

// RenderProjectSummary writes a PDF intake summary of a project aggregate
// with all of its child rows loaded.
func (s *DocumentService) RenderProjectSummary(w io.Writer, p *models.Project) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(p.ProjectName, true)
	pdf.SetAuthor(s.config.AppName, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s intake summary - page %d", s.config.AppName, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Title
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(190, 10, tr(p.ProjectName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Status: %s    Submitted: %s by %s", p.ApplyValue,
		p.CreatedDate.Format(dateLayout), tr(p.ApplyUser)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	field := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(55, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(135, 6, tr(value), "", "L", false)
	}
	section := func(title string) {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 13)
		pdf.SetFillColor(230, 234, 242)
		pdf.CellFormat(190, 8, title, "", 1, "L", true, 0, "")
		pdf.Ln(1)
	}

	section("Principal Investigator")
	field("Name", p.FirstNamePI+" "+p.LastNamePI)
	field("Email", p.EmailPI)
	field("Department", p.DepartmentPI)
	field("CRSid", p.CrsidPI)
	field("Other information", p.OtherInforPI)

	section("Technology Transfer Office")
	field("Contact", p.TTOContractName)
	field("Email", p.TTOContractEmail)
	field("Other information", p.TTOContractOtherInfo)

	section("Project")
	field("Modality", p.Modality)
	field("Modality (other)", p.ModalityOther)
	field("Area of expertise", p.AreaOfExpertise)
	field("Expertise (other)", p.AreaOfExpertiseOther)
	field("Readiness", p.Readiness)
	field("Background", p.ProjectBackground)
	field("Brief description", p.BriefDescription)

	overview := p.ToDataResponse()
	section("Funding Overview")
	field("Funding", overview.FundingOverview)
	field("Scheme", overview.SchemeOverview)
	field("Value", strconv.Itoa(overview.ValueOverview))
	field("Start", formatDate(overview.FundingOverviewStartDate))
	field("End", formatDate(overview.FundingOverviewEndDate))
	field("Grant number", overview.GrantNumberOverview)

	table := func(title string, header []string, widths []float64, rows [][]string) {
		section(fmt.Sprintf("%s (%d)", title, len(rows)))
		if len(rows) == 0 {
			return
		}
		pdf.SetFont("Arial", "B", 9)
		for i, h := range header {
			pdf.CellFormat(widths[i], 6, h, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, row := range rows {
			for i, cell := range row {
				pdf.CellFormat(widths[i], 6, tr(truncate(cell, int(widths[i]/1.8))), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var rows [][]string
	for _, r := range p.GroupMemberRows {
		rows = append(rows, []string{r.FirstNamePostDoc + " " + r.LastNamePostDoc, r.EmailPostDoc, r.PositionPostDoc, r.DepartmentPostDoc})
	}
	table("Group Members", []string{"Name", "Email", "Position", "Department"}, []float64{50, 55, 40, 45}, rows)

	rows = nil
	for _, r := range p.OutputRows {
		quantity := ""
		if r.OutputQuantity != nil {
			quantity = strconv.FormatInt(*r.OutputQuantity, 10)
		}
		rows = append(rows, []string{r.Output, r.Confirmation, quantity, r.OutputDescription})
	}
	table("Outputs", []string{"Output", "Confirmation", "Quantity", "Description"}, []float64{45, 30, 20, 95}, rows)

	rows = nil
	for _, r := range p.CollaborationRows {
		rows = append(rows, []string{r.Collaboration, r.CollaborationName, r.CollaborationEmail, r.CollaborationLocation})
	}
	table("Collaborations", []string{"Type", "Name", "Email", "Location"}, []float64{40, 50, 55, 45}, rows)

	rows = nil
	for _, r := range p.ExternalAdvisorsRows {
		rows = append(rows, []string{formatDate(r.ExternalAdvisorsMeeting), r.ExternalAdvisorsName, r.ExternalAdvisorsOrganisation, r.ExternalAdvisorsExpertise})
	}
	table("External Advisors", []string{"Meeting", "Name", "Organisation", "Expertise"}, []float64{35, 50, 55, 50}, rows)

	rows = nil
	for _, r := range p.SubContractorsRows {
		rows = append(rows, []string{r.SubContractorsName, r.SubContractorsOrganisation, r.SubContractorsEmail, r.SubContractorsExpertise})
	}
	table("Subcontractors", []string{"Name", "Organisation", "Email", "Expertise"}, []float64{45, 50, 50, 45}, rows)

	rows = nil
	for _, r := range p.PpiRows {
		rows = append(rows, []string{formatDate(r.PpiMeeting), r.PpiContact, r.PpiGroup, r.PpiOutcome})
	}
	table("Patient and Public Involvement", []string{"Meeting", "Contact", "Group", "Outcome"}, []float64{35, 45, 40, 70}, rows)

	rows = nil
	for _, r := range p.OtrRows {
		rows = append(rows, []string{r.OtrTeamMember, r.OtrRole, r.OtrFunding, formatDate(r.OtrDate)})
	}
	table("Team Resources", []string{"Team member", "Role", "Funding", "Date"}, []float64{50, 50, 55, 35}, rows)

	rows = nil
	for _, r := range p.FundingRows {
		rows = append(rows, []string{r.Funding, r.Scheme, strconv.Itoa(r.Value), r.GrantNumber})
	}
	table("Funding", []string{"Funding", "Scheme", "Value", "Grant number"}, []float64{60, 50, 30, 50}, rows)

	return pdf.Output(w)
}

func formatDate(d *models.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
