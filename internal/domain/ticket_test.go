package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryPartition(t *testing.T) {
	general := []TicketCategory{
		CategoryGeneralSupport,
		CategoryBugReport,
		CategoryPlayerReport,
		CategoryMediaApplications,
	}
	staff := []TicketCategory{
		CategoryStaffApplications,
		CategoryAppeals,
		CategoryStaffReport,
		CategoryStoreIssues,
	}

	for _, c := range general {
		assert.True(t, c.Known(), "%s should be known", c)
		assert.False(t, c.Sensitive(), "%s should not be sensitive", c)
	}
	for _, c := range staff {
		assert.True(t, c.Known(), "%s should be known", c)
		assert.True(t, c.Sensitive(), "%s should be sensitive", c)
	}

	unknown := TicketCategory("Gardening")
	assert.False(t, unknown.Known())
	assert.False(t, unknown.Sensitive())
}

func TestRecordState(t *testing.T) {
	var nilRecord *TicketRecord
	assert.Equal(t, TicketStateNone, nilRecord.State())

	rec := &TicketRecord{ChannelID: "chan-1"}
	assert.Equal(t, TicketStateOpen, rec.State())

	rec.Archived = true
	assert.Equal(t, TicketStateArchived, rec.State())
}

func TestRankOrderLadder(t *testing.T) {
	assert.Equal(t, RoleMember, RankOrder[0])
	assert.Equal(t, RoleOwner, RankOrder[len(RankOrder)-1])

	for _, key := range []RoleKey{RoleStaff, RoleDeveloper} {
		assert.NotContains(t, RankOrder, key)
	}
}
