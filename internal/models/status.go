package models

// StatusGroup is one of the five fixed pipeline stages a lead status belongs
// to. Groups are addressed symbolically, never by position.
type StatusGroup string

const (
	GroupNew        StatusGroup = "new"
	GroupInProgress StatusGroup = "in_progress"
	GroupPaid       StatusGroup = "paid"
	GroupDone       StatusGroup = "done"
	GroupRejected   StatusGroup = "rejected"
)

var groupLabels = map[StatusGroup]string{
	GroupNew:        "New",
	GroupInProgress: "In progress",
	GroupPaid:       "Paid",
	GroupDone:       "Done",
	GroupRejected:   "Rejected",
}

// Label returns the display label for the group, or the raw key for an
// unknown group.
func (g StatusGroup) Label() string {
	if label, ok := groupLabels[g]; ok {
		return label
	}
	return string(g)
}

// ReportGroups are the groups bucketed by the general report. Rejected is
// excluded on purpose.
func ReportGroups() []StatusGroup {
	return []StatusGroup{GroupNew, GroupInProgress, GroupPaid, GroupDone}
}

// AllGroups lists every pipeline stage in order.
func AllGroups() []StatusGroup {
	return []StatusGroup{GroupNew, GroupInProgress, GroupPaid, GroupDone, GroupRejected}
}

// Status is seeded reference data: a named step inside one of the groups.
type Status struct {
	ID    string      `json:"id" db:"id"`
	Name  string      `json:"name" db:"name"`
	Group StatusGroup `json:"group" db:"status_group"`
}
