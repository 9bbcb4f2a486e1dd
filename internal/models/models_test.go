package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeUserRoles(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := []UserRoleRow{
		{ID: 1, Email: "u1@example.com", FirstName: "Ada", CreatedDate: created, RoleID: 10, Role: "A"},
		{ID: 1, Email: "u1@example.com", FirstName: "ignored", RoleID: 11, Role: "B"},
		{ID: 2, Email: "u2@example.com", RoleID: 12, Role: "C"},
	}

	got := MergeUserRoles(rows)

	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].ID)
	assert.Equal(t, "A, B", got[0].Role)
	assert.Equal(t, "Ada", got[0].FirstName, "first row supplies the scalar fields")
	assert.Equal(t, uint64(10), got[0].RoleID)
	assert.Equal(t, created, got[0].CreatedDate)
	assert.Equal(t, uint64(2), got[1].ID)
	assert.Equal(t, "C", got[1].Role)
}

func TestMergeUserRoles_KeepsFirstSeenOrder(t *testing.T) {
	rows := []UserRoleRow{
		{ID: 7, Role: "X"},
		{ID: 3, Role: "Y"},
		{ID: 7, Role: "Z"},
		{ID: 1, Role: "W"},
	}

	got := MergeUserRoles(rows)

	require.Len(t, got, 3)
	assert.Equal(t, []uint64{7, 3, 1}, []uint64{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "X, Z", got[0].Role)
}

func TestMergeUserRoles_Empty(t *testing.T) {
	got := MergeUserRoles(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplyFundingOverview(t *testing.T) {
	start := NewDate(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	t.Run("no rows leaves zero values", func(t *testing.T) {
		p := Project{ID: 1, ProjectName: "P"}
		resp := p.ToDataResponse()
		assert.Empty(t, resp.FundingOverview)
		assert.Zero(t, resp.ValueOverview)
		assert.Nil(t, resp.FundingOverviewStartDate)
		assert.Empty(t, resp.GrantNumberOverview)
	})

	t.Run("first row only", func(t *testing.T) {
		p := Project{
			ID: 1,
			FundingOverviewRows: []FundingOverviewRow{
				{ID: 5, FundingOverview: "[NIHR]", SchemeOverview: "i4i", ValueOverview: 100,
					FundingOverviewStartDate: start, GrantNumberOverview: "G-1", WorktribeNumberOverview: "W-1"},
				{ID: 6, FundingOverview: "[MRC]", SchemeOverview: "DPFS", ValueOverview: 900,
					GrantNumberOverview: "G-2", FundingOverviewOther: "other"},
			},
		}
		resp := p.ToDataResponse()
		assert.Equal(t, "[NIHR]", resp.FundingOverview)
		assert.Equal(t, "i4i", resp.SchemeOverview)
		assert.Equal(t, 100, resp.ValueOverview)
		assert.Equal(t, start, resp.FundingOverviewStartDate)
		assert.Equal(t, "G-1", resp.GrantNumberOverview)
		assert.Equal(t, "W-1", resp.WorktribeNumberOverview)
		assert.Empty(t, resp.FundingOverviewOther, "second row must not leak in")
	})
}

func TestToDataResponse_MapsProjectFields(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	p := Project{
		ID: 9, ProjectName: "Alpha", CreatedDate: created, ApplyUser: "a@x.com", ModifyUser: "m@x.com",
		LastNamePI: "Curie", EmailPI: "pi@x.com", TTOContractName: "Tto", Modality: "[Drug]",
		ApplyValue: StatusAccepted,
	}
	resp := p.ToDataResponse()
	assert.Equal(t, uint64(9), resp.ID)
	assert.Equal(t, "Alpha", resp.ProjectName)
	assert.Equal(t, created, resp.CreatedDate)
	assert.Equal(t, "a@x.com", resp.CreatedEmail)
	assert.Equal(t, "m@x.com", resp.ModifyEmail)
	assert.Equal(t, "Curie", resp.LastNamePI)
	assert.Equal(t, "Tto", resp.TTOContractName)
	assert.Equal(t, "[Drug]", resp.Modality)
	assert.Equal(t, StatusAccepted, resp.ApplyValue)
}

func TestPartitionLatest(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []Project{
		{ID: 1, ProjectName: "A", CreatedDate: t0},
		{ID: 2, ProjectName: "A", CreatedDate: t0.Add(2 * time.Hour)},
		{ID: 3, ProjectName: "B", CreatedDate: t0.Add(time.Hour)},
		{ID: 4, ProjectName: "A", CreatedDate: t0.Add(time.Hour)},
	}

	latest, history := PartitionLatest(rows)

	assert.Equal(t, []uint64{2, 3}, ids(latest))
	assert.Equal(t, []uint64{1, 4}, ids(history))
	assert.Len(t, append(latest, history...), len(rows), "latest and history cover every row")
}

func TestPartitionLatest_TieBreaksOnHighestID(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []Project{
		{ID: 8, ProjectName: "A", CreatedDate: t0},
		{ID: 12, ProjectName: "A", CreatedDate: t0},
		{ID: 10, ProjectName: "A", CreatedDate: t0},
	}

	latest, history := PartitionLatest(rows)

	assert.Equal(t, []uint64{12}, ids(latest))
	assert.Equal(t, []uint64{8, 10}, ids(history))
}

func TestParseApplicationStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ApplicationStatus
		ok   bool
	}{
		{"SUBMITTED", StatusSubmitted, true},
		{"accepted", StatusAccepted, true},
		{" Rejected ", StatusRejected, true},
		{"CLOSED", StatusClosed, true},
		{"PENDING", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseApplicationStatus(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDedupKey_ValueEquality(t *testing.T) {
	d1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	d2 := d1.In(time.FixedZone("X", 3600))

	a := PpiRow{ID: 1, ProjectID: 1, PpiMeeting: NewDate(d1), PpiContact: "c"}
	b := PpiRow{ID: 2, ProjectID: 9, PpiMeeting: NewDate(d2), PpiContact: "c"}
	c := PpiRow{PpiMeeting: nil, PpiContact: "c"}
	blank := PpiRow{PpiMeeting: &Date{}, PpiContact: "c"}

	assert.Equal(t, a.DedupKey(), b.DedupKey(), "ids and zone do not affect equality")
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
	assert.Equal(t, c.DedupKey(), blank.DedupKey(), "a blank date equals a missing one")

	q1, q2 := int64(3), int64(3)
	assert.Equal(t, OutputRow{OutputQuantity: &q1}.DedupKey(), OutputRow{OutputQuantity: &q2}.DedupKey())
	assert.NotEqual(t, OutputRow{OutputQuantity: &q1}.DedupKey(), OutputRow{}.DedupKey())

	assert.NotEqual(t,
		GroupMemberRow{LastNamePostDoc: "a\x1fb"}.DedupKey(),
		GroupMemberRow{LastNamePostDoc: "a", FirstNamePostDoc: "b"}.DedupKey(),
		"separator inside a value must not collide")
}

func TestUser_RoleNames(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Lovelace", Roles: []Role{{Name: RoleUser}, {Name: RoleAdmin}}}
	assert.Equal(t, []string{RoleUser, RoleAdmin}, u.RoleNames())
	assert.Equal(t, "Ada Lovelace", u.FullName())
	assert.Equal(t, []string{RoleUser, RoleAdmin}, u.ToUserInfo().Roles)
}

func ids(ps []Project) []uint64 {
	out := make([]uint64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
