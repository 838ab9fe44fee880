package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"stockroom/internal/database"
	"stockroom/internal/models"
)

// Record writes one change-log entry. The journal is advisory: a write
// failure is logged and never blocks the mutation that triggered it.
func Record(action models.ChangeAction, ingredientID uint, summary string, before, after any) {
	entry := models.ChangeLog{
		IngredientID: ingredientID,
		Action:       action,
		Summary:      summary,
		BeforeData:   marshalOrNull(before),
		AfterData:    marshalOrNull(after),
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Println("change log not recorded:", err)
	}
}

// Undo reverses a single change-log entry: a create is deleted, an update is
// restored to its before image, a delete is recreated from its before image
// (with a fresh id). An entry undoes at most once.
func Undo(entry *models.ChangeLog) error {
	if entry.IsUndone {
		return fmt.Errorf("change was already undone")
	}

	switch entry.Action {
	case models.ChangeActionCreate:
		if err := database.DB.Delete(&models.Ingredient{}, "id = ?", entry.IngredientID).Error; err != nil {
			return fmt.Errorf("could not remove ingredient: %w", err)
		}

	case models.ChangeActionUpdate:
		var before models.Ingredient
		if err := json.Unmarshal([]byte(entry.BeforeData), &before); err != nil {
			return fmt.Errorf("before image unreadable: %w", err)
		}
		err := database.DB.Model(&models.Ingredient{}).
			Where("id = ?", entry.IngredientID).
			Updates(map[string]interface{}{
				"name":          before.Name,
				"quantity":      before.Quantity,
				"unit":          before.Unit,
				"supplier":      before.Supplier,
				"reorder_point": before.ReorderPoint,
				"unit_cost":     before.UnitCost,
				"location":      before.Location,
			}).Error
		if err != nil {
			return fmt.Errorf("could not restore ingredient: %w", err)
		}

	case models.ChangeActionDelete:
		var deleted models.Ingredient
		if err := json.Unmarshal([]byte(entry.BeforeData), &deleted); err != nil {
			return fmt.Errorf("before image unreadable: %w", err)
		}
		deleted.ID = 0 // the store assigns a new id
		if err := database.DB.Create(&deleted).Error; err != nil {
			return fmt.Errorf("could not recreate ingredient: %w", err)
		}

	default:
		return fmt.Errorf("action %q cannot be undone", entry.Action)
	}

	now := time.Now()
	entry.IsUndone = true
	entry.UndoneAt = &now
	if err := database.DB.Save(entry).Error; err != nil {
		return fmt.Errorf("change log not updated: %w", err)
	}

	Record(models.ChangeActionUndo, entry.IngredientID, "undid: "+entry.Summary,
		json.RawMessage(entry.AfterData), json.RawMessage(entry.BeforeData))

	return nil
}

func marshalOrNull(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
