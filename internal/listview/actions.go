package listview

import (
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/resource"
)

type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
	ActionRestore
)

// Messages are the notification texts of one resource screen.
type Messages struct {
	LoadError string

	Created, CreatedText, CreateError    string
	Updated, UpdatedText, UpdateError    string
	Deleted, DeletedText, DeleteError    string
	Restored, RestoredText, RestoreError string
}

func (m Messages) success(a Action) (string, string) {
	switch a {
	case ActionCreate:
		return m.Created, m.CreatedText
	case ActionUpdate:
		return m.Updated, m.UpdatedText
	case ActionDelete:
		return m.Deleted, m.DeletedText
	default:
		return m.Restored, m.RestoredText
	}
}

func (m Messages) failure(a Action) string {
	switch a {
	case ActionCreate:
		return m.CreateError
	case ActionUpdate:
		return m.UpdateError
	case ActionDelete:
		return m.DeleteError
	default:
		return m.RestoreError
	}
}

// RowAction is the only state transition a row offers: delete for active
// items, restore for inactive ones.
func RowAction(item resource.Item) Action {
	if model.Active(item.State()) {
		return ActionDelete
	}
	return ActionRestore
}

// Allowed reports whether action may be applied to an item in its state.
func Allowed(action Action, item resource.Item) bool {
	switch action {
	case ActionDelete, ActionRestore:
		return RowAction(item) == action
	default:
		return true
	}
}
