package models

import "time"

type ChangeAction string

const (
	ChangeActionCreate ChangeAction = "create"
	ChangeActionUpdate ChangeAction = "update"
	ChangeActionDelete ChangeAction = "delete"
	ChangeActionUndo   ChangeAction = "undo"
)

// ChangeLog is one journal entry per ingredient mutation. Before/after
// snapshots are kept as JSON so a change can be undone later.
type ChangeLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	IngredientID uint         `gorm:"index" json:"ingredient_id"`
	Action       ChangeAction `gorm:"size:20;index" json:"action"`
	Summary      string       `gorm:"size:255" json:"summary"`

	BeforeData string `json:"before_data"`
	AfterData  string `json:"after_data"`

	IsUndone bool       `gorm:"default:false" json:"is_undone"`
	UndoneAt *time.Time `json:"undone_at"`
}
