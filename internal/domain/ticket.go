package domain

import "time"

// TicketCategory enumerates the ticket types offered on the panel.
type TicketCategory string

const (
	CategoryGeneralSupport    TicketCategory = "General Support"
	CategoryBugReport         TicketCategory = "Bug Report"
	CategoryPlayerReport      TicketCategory = "Player Report"
	CategoryMediaApplications TicketCategory = "Media Applications"
	CategoryStaffApplications TicketCategory = "Staff Applications"
	CategoryAppeals           TicketCategory = "Appeals"
	CategoryStaffReport       TicketCategory = "Report a Staff Member"
	CategoryStoreIssues       TicketCategory = "Store Issues"
)

// generalCategories and staffCategories partition every category into a
// sensitivity tier. The tier is fixed at ticket creation and decides which
// roles may see the channel; it must never be recomputed for an existing
// record from a different partition.
var generalCategories = map[TicketCategory]struct{}{
	CategoryGeneralSupport:    {},
	CategoryBugReport:         {},
	CategoryPlayerReport:      {},
	CategoryMediaApplications: {},
}

var staffCategories = map[TicketCategory]struct{}{
	CategoryStaffApplications: {},
	CategoryAppeals:           {},
	CategoryStaffReport:       {},
	CategoryStoreIssues:       {},
}

// Known reports whether the category is one of the supported ticket types.
func (c TicketCategory) Known() bool {
	_, general := generalCategories[c]
	_, staff := staffCategories[c]
	return general || staff
}

// Sensitive reports whether the category belongs to the staff-restricted tier.
func (c TicketCategory) Sensitive() bool {
	_, ok := staffCategories[c]
	return ok
}

// TicketState enumerates lifecycle states. CLOSING is not persisted: it is
// the live existence of a close countdown for the channel.
type TicketState string

const (
	TicketStateNone     TicketState = "NONE"
	TicketStateOpen     TicketState = "OPEN"
	TicketStateClosing  TicketState = "CLOSING"
	TicketStateArchived TicketState = "ARCHIVED"
	TicketStateDeleted  TicketState = "DELETED"
)

// TicketRecord is the persisted record for an open-or-archived ticket,
// keyed by the channel the ticket lives in.
type TicketRecord struct {
	ChannelID string
	OwnerID   string
	Category  TicketCategory
	// Claimed is reserved for a staff-claim feature; no transition sets it.
	Claimed   bool
	Archived  bool
	CreatedAt time.Time
}

// State derives the persisted lifecycle state of the record.
func (r *TicketRecord) State() TicketState {
	if r == nil {
		return TicketStateNone
	}
	if r.Archived {
		return TicketStateArchived
	}
	return TicketStateOpen
}
