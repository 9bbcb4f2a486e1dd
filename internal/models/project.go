package models

import (
	"strings"
	"time"
)

type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "SUBMITTED"
	StatusAccepted  ApplicationStatus = "ACCEPTED"
	StatusRejected  ApplicationStatus = "REJECTED"
	StatusClosed    ApplicationStatus = "CLOSED"
)

// ParseApplicationStatus accepts a status name in any case.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch st := ApplicationStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusSubmitted, StatusAccepted, StatusRejected, StatusClosed:
		return st, true
	}
	return "", false
}

// Project is one intake submission. A resubmission of the same project is a
// new row with the same ProjectName; children are written once at creation.
type Project struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	ProjectName string    `gorm:"index" json:"projectName"`
	CreatedDate time.Time `gorm:"index;not null" json:"createdDate"`
	ApplyUser   string    `gorm:"column:apply_user;index" json:"createdEmail"`
	ModifyUser  string    `gorm:"column:modify_user" json:"modifyEmail"`

	// Principal investigator
	LastNamePI   string `gorm:"column:last_name_pi" json:"lastNamePI"`
	FirstNamePI  string `gorm:"column:first_name_pi" json:"firstNamePI"`
	EmailPI      string `gorm:"column:email_pi" json:"emailPI"`
	DepartmentPI string `gorm:"column:department_pi" json:"departmentPI"`
	CrsidPI      string `gorm:"column:crsid_pi" json:"crsidPI"`
	OtherInforPI string `gorm:"column:other_infor_pi" json:"otherInforPI"`

	// Technology transfer office contact
	TTOContractName      string `gorm:"column:tto_contract_name" json:"ttoContractName"`
	TTOContractEmail     string `gorm:"column:tto_contract_email" json:"ttoContractEmail"`
	TTOContractOtherInfo string `gorm:"column:tto_contract_other_info" json:"ttoContractOtherInfo"`

	// Scope
	Modality             string `json:"modality"`
	ModalityOther        string `json:"modalityOther"`
	AreaOfExpertise      string `json:"areaOfExpertise"`
	AreaOfExpertiseOther string `json:"areaOfExpertiseOther"`
	Readiness            string `json:"readiness"`
	ProjectBackground    string `gorm:"type:text" json:"projectBackground"`
	BriefDescription     string `gorm:"type:text" json:"briefDescription"`

	ApplyValue ApplicationStatus `gorm:"type:varchar(20);not null" json:"applyValue"`

	// Children
	GroupMemberRows      []GroupMemberRow      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	OutputRows           []OutputRow           `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	CollaborationRows    []CollaborationRow    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	ExternalAdvisorsRows []ExternalAdvisorRow  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	SubContractorsRows   []SubContractorRow    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	PpiRows              []PpiRow              `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	OtrRows              []OtrRow              `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	FundingRows          []FundingRow          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	FundingOverviewRows  []FundingOverviewRow  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// ProjectDataResponse is the listing view of a project with its first
// funding overview flattened into the top level.
type ProjectDataResponse struct {
	ID                   uint64            `json:"id"`
	ProjectName          string            `json:"projectName"`
	LastNamePI           string            `json:"lastNamePI"`
	FirstNamePI          string            `json:"firstNamePI"`
	EmailPI              string            `json:"emailPI"`
	DepartmentPI         string            `json:"departmentPI"`
	CrsidPI              string            `json:"crsidPI"`
	OtherInforPI         string            `json:"otherInforPI"`
	TTOContractName      string            `json:"ttoContractName"`
	TTOContractEmail     string            `json:"ttoContractEmail"`
	TTOContractOtherInfo string            `json:"ttoContractOtherInfo"`
	Modality             string            `json:"modality"`
	ModalityOther        string            `json:"modalityOther"`
	AreaOfExpertise      string            `json:"areaOfExpertise"`
	AreaOfExpertiseOther string            `json:"areaOfExpertiseOther"`
	Readiness            string            `json:"readiness"`
	ProjectBackground    string            `json:"projectBackground"`
	BriefDescription     string            `json:"briefDescription"`
	CreatedEmail         string            `json:"createdEmail"`
	CreatedDate          time.Time         `json:"createdDate"`
	ModifyEmail          string            `json:"modifyEmail"`
	ApplyValue           ApplicationStatus `json:"applyValue"`

	FundingOverview          string     `json:"fundingOverview"`
	FundingOverviewOther     string     `json:"fundingOverviewOther"`
	SchemeOverview           string     `json:"schemeOverview"`
	ValueOverview            int        `json:"valueOverview"`
	FundingOverviewStartDate *Date `json:"fundingOverviewStartDate"`
	FundingOverviewEndDate   *Date `json:"fundingOverviewEndDate"`
	GrantNumberOverview      string     `json:"grantNumberOverview"`
	WorktribeNumberOverview  string     `json:"worktribeNumberOverview"`
}

// ToDataResponse maps the project row and, when loaded, the first of its
// funding overview rows.
func (p *Project) ToDataResponse() ProjectDataResponse {
	resp := ProjectDataResponse{
		ID:                   p.ID,
		ProjectName:          p.ProjectName,
		LastNamePI:           p.LastNamePI,
		FirstNamePI:          p.FirstNamePI,
		EmailPI:              p.EmailPI,
		DepartmentPI:         p.DepartmentPI,
		CrsidPI:              p.CrsidPI,
		OtherInforPI:         p.OtherInforPI,
		TTOContractName:      p.TTOContractName,
		TTOContractEmail:     p.TTOContractEmail,
		TTOContractOtherInfo: p.TTOContractOtherInfo,
		Modality:             p.Modality,
		ModalityOther:        p.ModalityOther,
		AreaOfExpertise:      p.AreaOfExpertise,
		AreaOfExpertiseOther: p.AreaOfExpertiseOther,
		Readiness:            p.Readiness,
		ProjectBackground:    p.ProjectBackground,
		BriefDescription:     p.BriefDescription,
		CreatedEmail:         p.ApplyUser,
		CreatedDate:          p.CreatedDate,
		ModifyEmail:          p.ModifyUser,
		ApplyValue:           p.ApplyValue,
	}
	resp.ApplyFundingOverview(p.FundingOverviewRows)
	return resp
}

// ApplyFundingOverview copies the first row into the overview fields. It
// never merges rows; with no rows the fields stay zero.
func (r *ProjectDataResponse) ApplyFundingOverview(rows []FundingOverviewRow) {
	if len(rows) == 0 {
		return
	}
	first := rows[0]
	r.FundingOverview = first.FundingOverview
	r.FundingOverviewOther = first.FundingOverviewOther
	r.SchemeOverview = first.SchemeOverview
	r.ValueOverview = first.ValueOverview
	r.FundingOverviewStartDate = first.FundingOverviewStartDate
	r.FundingOverviewEndDate = first.FundingOverviewEndDate
	r.GrantNumberOverview = first.GrantNumberOverview
	r.WorktribeNumberOverview = first.WorktribeNumberOverview
}

// PartitionLatest splits rows into the newest row per project name and the
// rest. Rows sharing the newest timestamp are tie-broken by the highest id.
// Both results keep the input order.
func PartitionLatest(projects []Project) (latest, history []Project) {
	newest := make(map[string]int, len(projects))
	for i := range projects {
		j, ok := newest[projects[i].ProjectName]
		if !ok || newerThan(&projects[i], &projects[j]) {
			newest[projects[i].ProjectName] = i
		}
	}

	latest = make([]Project, 0, len(newest))
	history = make([]Project, 0, len(projects)-len(newest))
	for i := range projects {
		if newest[projects[i].ProjectName] == i {
			latest = append(latest, projects[i])
		} else {
			history = append(history, projects[i])
		}
	}
	return latest, history
}

func newerThan(a, b *Project) bool {
	if !a.CreatedDate.Equal(b.CreatedDate) {
		return a.CreatedDate.After(b.CreatedDate)
	}
	return a.ID > b.ID
}

// ToDataResponses maps a slice, never returning nil.
func ToDataResponses(projects []Project) []ProjectDataResponse {
	out := make([]ProjectDataResponse, 0, len(projects))
	for i := range projects {
		out = append(out, projects[i].ToDataResponse())
	}
	return out
}
