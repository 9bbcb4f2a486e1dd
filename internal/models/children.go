package models

// ChildRow is the set of record kinds a project owns. Each is stored in its
// own table keyed by project_id.
type ChildRow interface {
	GroupMemberRow | OutputRow | CollaborationRow | ExternalAdvisorRow |
		SubContractorRow | PpiRow | OtrRow | FundingRow | FundingOverviewRow
}

type GroupMemberRow struct {
	ID                uint64 `gorm:"primaryKey" json:"id"`
	ProjectID         uint64 `gorm:"not null;index" json:"-"`
	LastNamePostDoc   string `json:"lastNamePostDoc"`
	FirstNamePostDoc  string `json:"firstNamePostDoc"`
	EmailPostDoc      string `json:"emailPostDoc"`
	DepartmentPostDoc string `json:"departmentPostDoc"`
	PositionPostDoc   string `json:"positionPostDoc"`
	CrsidPostDoc      string `json:"crsidPostDoc"`
	OtherInforPostDoc string `json:"otherInforPostDoc"`
}

func (r GroupMemberRow) DedupKey() string {
	return rowKey(r.LastNamePostDoc, r.FirstNamePostDoc, r.EmailPostDoc, r.DepartmentPostDoc,
		r.PositionPostDoc, r.CrsidPostDoc, r.OtherInforPostDoc)
}

type OutputRow struct {
	ID                uint64 `gorm:"primaryKey" json:"id"`
	ProjectID         uint64 `gorm:"not null;index" json:"-"`
	Output            string `json:"output"`
	Confirmation      string `json:"confirmation"`
	OutputQuantity    *int64 `json:"outputQuantity"`
	OutputDescription string `gorm:"type:text" json:"output_description"`
}

func (r OutputRow) DedupKey() string {
	return rowKey(r.Output, r.Confirmation, r.OutputQuantity, r.OutputDescription)
}

type CollaborationRow struct {
	ID                     uint64 `gorm:"primaryKey" json:"id"`
	ProjectID              uint64 `gorm:"not null;index" json:"-"`
	Collaboration          string `json:"collaboration"`
	CollaborationName      string `json:"collaborationName"`
	CollaborationEmail     string `json:"collaborationEmail"`
	CollaborationLocation  string `json:"collaborationLocation"`
	CollaborationOtherInfo string `json:"collaborationOtherInfo"`
}

func (r CollaborationRow) DedupKey() string {
	return rowKey(r.Collaboration, r.CollaborationName, r.CollaborationEmail,
		r.CollaborationLocation, r.CollaborationOtherInfo)
}

type ExternalAdvisorRow struct {
	ID                           uint64     `gorm:"primaryKey" json:"id"`
	ProjectID                    uint64     `gorm:"not null;index" json:"-"`
	ExternalAdvisorsMeeting      *Date `json:"externalAdvisorsMeeting"`
	ExternalAdvisorsOrganisation string     `json:"externalAdvisorsOrganisation"`
	ExternalAdvisorsName         string     `json:"externalAdvisorsName"`
	ExternalAdvisorsEmail        string     `json:"externalAdvisorsEmail"`
	ExternalAdvisorsOutcome      string     `gorm:"type:text" json:"externalAdvisorsOutcome"`
	ExternalAdvisorsExpertise    string     `json:"externalAdvisorsExpertise"`
}

func (r ExternalAdvisorRow) DedupKey() string {
	return rowKey(r.ExternalAdvisorsMeeting, r.ExternalAdvisorsOrganisation, r.ExternalAdvisorsName,
		r.ExternalAdvisorsEmail, r.ExternalAdvisorsOutcome, r.ExternalAdvisorsExpertise)
}

type SubContractorRow struct {
	ID                         uint64 `gorm:"primaryKey" json:"id"`
	ProjectID                  uint64 `gorm:"not null;index" json:"-"`
	SubContractorsName         string `json:"subContractorsName"`
	SubContractorsEmail        string `json:"subContractorsEmail"`
	SubContractorsExpertise    string `json:"subContractorsExpertise"`
	SubContractorsOrganisation string `json:"subContractorsOrganisation"`
	SubContractorsOtherInfo    string `json:"subContractorsOtherInfo"`
}

func (r SubContractorRow) DedupKey() string {
	return rowKey(r.SubContractorsName, r.SubContractorsEmail, r.SubContractorsExpertise,
		r.SubContractorsOrganisation, r.SubContractorsOtherInfo)
}

type PpiRow struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	ProjectID  uint64     `gorm:"not null;index" json:"-"`
	PpiMeeting *Date `json:"ppiMeeting"`
	PpiContact string     `json:"ppiContact"`
	PpiGroup   string     `json:"ppiGroup"`
	PpiOutcome string     `gorm:"type:text" json:"ppiOutcome"`
}

func (r PpiRow) DedupKey() string {
	return rowKey(r.PpiMeeting, r.PpiContact, r.PpiGroup, r.PpiOutcome)
}

type OtrRow struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	ProjectID     uint64     `gorm:"not null;index" json:"-"`
	OtrTeamMember string     `json:"otrTeamMember"`
	OtrRole       string     `json:"otrRole"`
	OtrFunding    string     `json:"otrFunding"`
	OtrDate       *Date `json:"otrDate"`
	OtrOtherInfo  string     `json:"otrOtherInfo"`
}

func (r OtrRow) DedupKey() string {
	return rowKey(r.OtrTeamMember, r.OtrRole, r.OtrFunding, r.OtrDate, r.OtrOtherInfo)
}

type FundingRow struct {
	ID                        uint64     `gorm:"primaryKey" json:"id"`
	ProjectID                 uint64     `gorm:"not null;index" json:"-"`
	Funding                   string     `json:"funding"`
	FundingOther              string     `json:"fundingOther"`
	FundingNIHR               string     `gorm:"column:funding_nihr" json:"fundingNIHR"`
	FundingNIHROther          string     `gorm:"column:funding_nihr_other" json:"fundingNIHROther"`
	FundingUKRIMRC            string     `gorm:"column:funding_ukrimrc" json:"fundingUKRIMRC"`
	FundingUKRIMRCOther       string     `gorm:"column:funding_ukrimrc_other" json:"fundingUKRIMRCOther"`
	FundingWellcomeTrust      string     `json:"fundingWellcomeTrust"`
	FundingWellcomeTrustOther string     `json:"fundingWellcomeTrustOther"`
	Scheme                    string     `json:"scheme"`
	SchemeOther               string     `json:"schemeOther"`
	Value                     int        `json:"value"`
	FundingStartDate          *Date `json:"fundingStartDate"`
	FundingEndDate            *Date `json:"fundingEndDate"`
	Aims                      string     `gorm:"type:text" json:"aims"`
	GrantNumber               string     `json:"grantNumber"`
	WorktribeNumber           string     `json:"worktribeNumber"`
}

func (r FundingRow) DedupKey() string {
	return rowKey(r.Funding, r.FundingOther, r.FundingNIHR, r.FundingNIHROther, r.FundingUKRIMRC,
		r.FundingUKRIMRCOther, r.FundingWellcomeTrust, r.FundingWellcomeTrustOther, r.Scheme,
		r.SchemeOther, r.Value, r.FundingStartDate, r.FundingEndDate, r.Aims, r.GrantNumber,
		r.WorktribeNumber)
}

type FundingOverviewRow struct {
	ID                                uint64     `gorm:"primaryKey" json:"id"`
	ProjectID                         uint64     `gorm:"not null;index" json:"-"`
	FundingOverview                   string     `json:"fundingOverview"`
	FundingOverviewOther              string     `json:"fundingOverviewOther"`
	FundingOverviewNIHR               string     `gorm:"column:funding_overview_nihr" json:"fundingOverviewNIHR"`
	FundingOverviewNIHROther          string     `gorm:"column:funding_overview_nihr_other" json:"fundingOverviewNIHROther"`
	FundingOverviewUKRIMRC            string     `gorm:"column:funding_overview_ukrimrc" json:"fundingOverviewUKRIMRC"`
	FundingOverviewUKRIMRCOther       string     `gorm:"column:funding_overview_ukrimrc_other" json:"fundingOverviewUKRIMRCOther"`
	FundingOverviewWellcomeTrust      string     `json:"fundingOverviewWellcomeTrust"`
	FundingOverviewWellcomeTrustOther string     `json:"fundingOverviewWellcomeTrustOther"`
	SchemeOverview                    string     `json:"schemeOverview"`
	SchemeOverviewOther               string     `json:"schemeOverviewOther"`
	ValueOverview                     int        `json:"valueOverview"`
	FundingOverviewStartDate          *Date `json:"fundingOverviewStartDate"`
	FundingOverviewEndDate            *Date `json:"fundingOverviewEndDate"`
	AimsOverview                      string     `gorm:"type:text" json:"aimsOverview"`
	GrantNumberOverview               string     `json:"grantNumberOverview"`
	WorktribeNumberOverview           string     `json:"worktribeNumberOverview"`
}

func (r FundingOverviewRow) DedupKey() string {
	return rowKey(r.FundingOverview, r.FundingOverviewOther, r.FundingOverviewNIHR,
		r.FundingOverviewNIHROther, r.FundingOverviewUKRIMRC, r.FundingOverviewUKRIMRCOther,
		r.FundingOverviewWellcomeTrust, r.FundingOverviewWellcomeTrustOther, r.SchemeOverview,
		r.SchemeOverviewOther, r.ValueOverview, r.FundingOverviewStartDate,
		r.FundingOverviewEndDate, r.AimsOverview, r.GrantNumberOverview, r.WorktribeNumberOverview)
}

// Detach clears the identity fields so the row can be inserted under a new
// project.
func (r *GroupMemberRow) Detach()     { r.ID, r.ProjectID = 0, 0 }
func (r *OutputRow) Detach()          { r.ID, r.ProjectID = 0, 0 }
func (r *CollaborationRow) Detach()   { r.ID, r.ProjectID = 0, 0 }
func (r *ExternalAdvisorRow) Detach() { r.ID, r.ProjectID = 0, 0 }
func (r *SubContractorRow) Detach()   { r.ID, r.ProjectID = 0, 0 }
func (r *PpiRow) Detach()             { r.ID, r.ProjectID = 0, 0 }
func (r *OtrRow) Detach()             { r.ID, r.ProjectID = 0, 0 }
func (r *FundingRow) Detach()         { r.ID, r.ProjectID = 0, 0 }
func (r *FundingOverviewRow) Detach() { r.ID, r.ProjectID = 0, 0 }
