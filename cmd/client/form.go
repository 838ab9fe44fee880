package main

import (
	"fmt"
	"strconv"
	"strings"

	"stockroom/internal/inventory"
	"stockroom/internal/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var formLabels = []string{
	"Name", "Quantity", "Unit", "Supplier", "Reorder point", "Unit cost", "Location",
}

// formModel is the create/edit screen. Field order matches formLabels.
type formModel struct {
	inputs    []textinput.Model
	focus     int
	editingID uint // 0 = creating
	fieldErrs inventory.FieldErrors
}

func newForm(editing *models.Ingredient) formModel {
	f := formModel{inputs: make([]textinput.Model, len(formLabels))}
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 30
		f.inputs[i] = ti
	}
	f.inputs[2].Placeholder = strings.Join(models.Units, " | ")
	f.inputs[6].Placeholder = strings.Join(models.Locations, " | ") + " | free text"

	if editing != nil {
		f.editingID = editing.ID
		f.inputs[0].SetValue(editing.Name)
		f.inputs[1].SetValue(strconv.FormatFloat(editing.Quantity, 'f', -1, 64))
		f.inputs[2].SetValue(editing.Unit)
		f.inputs[3].SetValue(editing.Supplier)
		f.inputs[4].SetValue(strconv.Itoa(editing.ReorderPoint))
		f.inputs[5].SetValue(editing.UnitCost.StringFixed(2))
		f.inputs[6].SetValue(editing.Location)
	}
	f.inputs[0].Focus()
	return f
}

// payload turns the form fields into the same wire payload the server
// validates, so invalid input is caught before any request goes out.
func (f formModel) payload() inventory.Payload {
	str := func(i int) *string {
		s := strings.TrimSpace(f.inputs[i].Value())
		return &s
	}
	num := func(i int) *inventory.Number {
		if strings.TrimSpace(f.inputs[i].Value()) == "" {
			return nil
		}
		return inventory.NumberFromString(f.inputs[i].Value())
	}
	return inventory.Payload{
		Name:         str(0),
		Quantity:     num(1),
		Unit:         str(2),
		Supplier:     str(3),
		ReorderPoint: num(4),
		UnitCost:     num(5),
		Location:     str(6),
	}
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.form
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = viewList
		m.err = ""
		return m, nil
	case "tab", "down":
		f.inputs[f.focus].Blur()
		f.focus = (f.focus + 1) % len(f.inputs)
		f.inputs[f.focus].Focus()
		return m, textinput.Blink
	case "shift+tab", "up":
		f.inputs[f.focus].Blur()
		f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
		f.inputs[f.focus].Focus()
		return m, textinput.Blink
	case "enter":
		p := f.payload()
		if _, verrs := inventory.DefaultValidator().Validate(p); verrs != nil {
			f.fieldErrs = verrs
			return m, nil
		}
		f.fieldErrs = nil
		m.loading = true
		return m, saveIngredient(m.api, f.editingID, p)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (f formModel) view(apiErr string) string {
	title := "Add ingredient"
	if f.editingID != 0 {
		title = "Edit ingredient"
	}
	out := titleStyle.Render(title) + "\n\n"

	for i, label := range formLabels {
		out += fmt.Sprintf("%-14s %s", label+":", f.inputs[i].View())
		if reason, ok := f.errFor(i); ok {
			out += "  " + errorStyle.Render(reason)
		}
		out += "\n"
	}

	out += "\n" + dimStyle.Render("[tab] next field  [enter] save  [esc] cancel")
	if apiErr != "" {
		out += "\n" + errorStyle.Render(apiErr)
	}
	return out
}

var formFieldNames = []string{
	"name", "quantity", "unit", "supplier", "reorder_point", "unit_cost", "location",
}

func (f formModel) errFor(i int) (string, bool) {
	for _, fe := range f.fieldErrs {
		if fe.Field == formFieldNames[i] {
			return fe.Reason, true
		}
	}
	return "", false
}
