package client

import "dtiestoque.org/internal/inventory"

// ModalState is the phase of the create/edit dialog.
type ModalState int

const (
	ModalClosed ModalState = iota
	ModalOpenForCreate
	ModalOpenForEdit
	ModalSubmitting
)

func (m ModalState) String() string {
	switch m {
	case ModalClosed:
		return "closed"
	case ModalOpenForCreate:
		return "open_for_create"
	case ModalOpenForEdit:
		return "open_for_edit"
	case ModalSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// State is everything the list screen renders from.
// Visible is always ApplyFilter(All, Filter). EditingID is non-zero only
// while the modal edits an existing row (including while submitting that edit).
type State struct {
	All       []inventory.Equipment
	Visible   []inventory.Equipment
	EditingID int64
	Modal     ModalState
	Filter    Filter
}

func (s State) clone() State {
	out := s
	out.All = append([]inventory.Equipment(nil), s.All...)
	out.Visible = append([]inventory.Equipment(nil), s.Visible...)
	if s.Filter.LocationID != nil {
		v := *s.Filter.LocationID
		out.Filter.LocationID = &v
	}
	return out
}

// openState is the modal phase a failed submit returns to.
func (s State) openState() ModalState {
	if s.EditingID != 0 {
		return ModalOpenForEdit
	}
	return ModalOpenForCreate
}
