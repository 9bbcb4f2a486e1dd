package models

import (
	"strconv"
	"strings"
	"time"
)

// ProjectCreateRequest is the intake form payload. ApplyValue is accepted
// but ignored; every new submission starts as SUBMITTED.
type ProjectCreateRequest struct {
	ProjectName string `json:"projectName"`

	LastNamePI   string `json:"lastNamePI"`
	FirstNamePI  string `json:"firstNamePI"`
	EmailPI      string `json:"emailPI"`
	DepartmentPI string `json:"departmentPI"`
	CrsidPI      string `json:"crsidPI"`
	OtherInforPI string `json:"otherInforPI"`

	TTOContractName      string `json:"ttoContractName"`
	TTOContractEmail     string `json:"ttoContractEmail"`
	TTOContractOtherInfo string `json:"ttoContractOtherInfo"`

	Modality             []string `json:"modality"`
	ModalityOther        string   `json:"modalityOther"`
	AreaOfExpertise      []string `json:"areaOfExpertise"`
	AreaOfExpertiseOther string   `json:"areaOfExpertiseOther"`
	Readiness            string   `json:"readiness"`
	ProjectBackground    string   `json:"projectBackground"`
	BriefDescription     string   `json:"briefDescription"`
	ApplyValue           string   `json:"applyValue"`

	GroupMemberRows      []GroupMemberRow            `json:"groupMemberRows"`
	OutputRows           []OutputRow                 `json:"outputRows"`
	CollaborationRows    []CollaborationRow          `json:"collaborationRows"`
	ExternalAdvisorsRows []ExternalAdvisorRow        `json:"externalAdvisorsRows"`
	SubContractorsRows   []SubContractorRow          `json:"subContractorsRows"`
	PpiRows              []PpiRow                    `json:"ppiRows"`
	OtrRows              []OtrRow                    `json:"otrRows"`
	FundingRows          []FundingRowRequest         `json:"fundingRows"`
	FundingOverviewRows  []FundingOverviewRowRequest `json:"fundingOverviewRows"`
}

// FundingRowRequest differs from FundingRow only in Funding, which the form
// sends as a multi-select list.
type FundingRowRequest struct {
	Funding                   []string   `json:"funding"`
	FundingOther              string     `json:"fundingOther"`
	FundingNIHR               string     `json:"fundingNIHR"`
	FundingNIHROther          string     `json:"fundingNIHROther"`
	FundingUKRIMRC            string     `json:"fundingUKRIMRC"`
	FundingUKRIMRCOther       string     `json:"fundingUKRIMRCOther"`
	FundingWellcomeTrust      string     `json:"fundingWellcomeTrust"`
	FundingWellcomeTrustOther string     `json:"fundingWellcomeTrustOther"`
	Scheme                    string     `json:"scheme"`
	SchemeOther               string     `json:"schemeOther"`
	Value                     int        `json:"value"`
	FundingStartDate          *Date `json:"fundingStartDate"`
	FundingEndDate            *Date `json:"fundingEndDate"`
	Aims                      string     `json:"aims"`
	GrantNumber               string     `json:"grantNumber"`
	WorktribeNumber           string     `json:"worktribeNumber"`
}

type FundingOverviewRowRequest struct {
	FundingOverview                   []string   `json:"fundingOverview"`
	FundingOverviewOther              string     `json:"fundingOverviewOther"`
	FundingOverviewNIHR               string     `json:"fundingOverviewNIHR"`
	FundingOverviewNIHROther          string     `json:"fundingOverviewNIHROther"`
	FundingOverviewUKRIMRC            string     `json:"fundingOverviewUKRIMRC"`
	FundingOverviewUKRIMRCOther       string     `json:"fundingOverviewUKRIMRCOther"`
	FundingOverviewWellcomeTrust      string     `json:"fundingOverviewWellcomeTrust"`
	FundingOverviewWellcomeTrustOther string     `json:"fundingOverviewWellcomeTrustOther"`
	SchemeOverview                    string     `json:"schemeOverview"`
	SchemeOverviewOther               string     `json:"schemeOverviewOther"`
	ValueOverview                     int        `json:"valueOverview"`
	FundingOverviewStartDate          *Date `json:"fundingOverviewStartDate"`
	FundingOverviewEndDate            *Date `json:"fundingOverviewEndDate"`
	AimsOverview                      string     `json:"aimsOverview"`
	GrantNumberOverview               string     `json:"grantNumberOverview"`
	WorktribeNumberOverview           string     `json:"worktribeNumberOverview"`
}

// rowKey renders field values into one comparable string. Pointers are
// dereferenced so two rows with equal dates compare equal.
func rowKey(fields ...any) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		switch v := f.(type) {
		case string:
			b.WriteString(strconv.Quote(v))
		case int:
			b.WriteString(strconv.Itoa(v))
		case *int64:
			if v == nil {
				b.WriteString("nil")
			} else {
				b.WriteString(strconv.FormatInt(*v, 10))
			}
		case *Date:
			if v == nil || v.IsZero() {
				b.WriteString("nil")
			} else {
				b.WriteString(v.UTC().Format(time.RFC3339Nano))
			}
		}
	}
	return b.String()
}
