package main

import (
	"fmt"
	"os"
	"strconv"

	"stockroom/internal/client"
	"stockroom/internal/inventory"
	"stockroom/internal/models"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#c73131")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3c3c3c"))

	lowStockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f4a020")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff453a"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#30d158"))
)

// Views
const (
	viewList    = "list"
	viewForm    = "form"
	viewConfirm = "confirm"
)

// Messages
type itemsMsg []models.Ingredient

type savedMsg struct{ ing *models.Ingredient }

type deletedMsg struct{ id uint }

type errMsg struct{ err error }

type model struct {
	api *client.Client

	view    string
	items   []models.Ingredient
	cursor  int
	loading bool
	spinner spinner.Model

	// filter state, re-applied on every keystroke
	search   textinput.Model
	stock    inventory.StockFilter
	location string

	form         formModel
	deleteTarget *models.Ingredient

	status string
	err    string
}

func initialModel(api *client.Client) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	search := textinput.New()
	search.Placeholder = "search ingredients"
	search.CharLimit = 64
	search.Width = 30

	return model{
		api:      api,
		view:     viewList,
		spinner:  s,
		search:   search,
		stock:    inventory.StockAll,
		location: inventory.LocationAll,
		loading:  true,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchIngredients(m.api), tea.EnterAltScreen)
}

// filterState turns the UI controls into the shared engine's view state.
func (m model) filterState() inventory.FilterState {
	return inventory.FilterState{
		Search:   m.search.Value(),
		Stock:    m.stock,
		Location: m.location,
	}
}

// visible derives the filtered list from the full fetched set.
func (m model) visible() []models.Ingredient {
	return inventory.Filter(m.items, m.filterState())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsMsg:
		m.items = msg
		m.loading = false
		m.clampCursor()
		return m, nil

	case savedMsg:
		m.loading = false
		m.view = viewList
		m.status = fmt.Sprintf("%s saved", msg.ing.Name)
		m.err = ""
		return m, fetchIngredients(m.api)

	case deletedMsg:
		m.loading = false
		m.view = viewList
		m.status = "ingredient deleted"
		m.err = ""
		m.deleteTarget = nil
		return m, fetchIngredients(m.api)

	case errMsg:
		m.loading = false
		m.err = msg.err.Error()
		if m.view == viewConfirm {
			m.view = viewList
			m.deleteTarget = nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case viewList:
			return m.updateList(msg)
		case viewForm:
			return m.updateForm(msg)
		case viewConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the search box has focus every key except esc/enter is input;
	// the list re-filters as the text changes.
	if m.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.search.Blur()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.clampCursor()
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "/":
		m.search.Focus()
		return m, textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "f":
		if m.stock == inventory.StockAll {
			m.stock = inventory.StockLowOnly
		} else {
			m.stock = inventory.StockAll
		}
		m.clampCursor()
	case "c":
		m.location = nextLocation(m.location)
		m.clampCursor()
	case "r":
		m.loading = true
		return m, fetchIngredients(m.api)
	case "a":
		m.form = newForm(nil)
		m.view = viewForm
		return m, textinput.Blink
	case "e":
		if ing, ok := m.selected(); ok {
			m.form = newForm(&ing)
			m.view = viewForm
			return m, textinput.Blink
		}
	case "d":
		if ing, ok := m.selected(); ok {
			m.deleteTarget = &ing
			m.view = viewConfirm
		}
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.loading = true
		return m, deleteIngredient(m.api, m.deleteTarget.ID)
	case "n", "esc":
		m.view = viewList
		m.deleteTarget = nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) selected() (models.Ingredient, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return models.Ingredient{}, false
	}
	return vis[m.cursor], true
}

func (m *model) clampCursor() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// nextLocation cycles ALL -> each known location -> ALL.
func nextLocation(cur string) string {
	options := append([]string{inventory.LocationAll}, models.Locations...)
	for i, loc := range options {
		if loc == cur {
			return options[(i+1)%len(options)]
		}
	}
	return inventory.LocationAll
}

func (m model) View() string {
	switch m.view {
	case viewForm:
		return docStyle.Render(m.form.view(m.err))
	case viewConfirm:
		body := titleStyle.Render("Delete ingredient") + "\n\n"
		body += fmt.Sprintf("Delete %q? (y/n)\n", m.deleteTarget.Name)
		return docStyle.Render(body)
	default:
		return docStyle.Render(m.listView())
	}
}

func (m model) listView() string {
	out := titleStyle.Render("Stock Room") + "\n\n"
	out += "Search: " + m.search.View() + "\n"
	out += dimStyle.Render(fmt.Sprintf("stock: %s   location: %s", m.stock, m.location)) + "\n\n"

	if m.loading {
		out += m.spinner.View() + " loading...\n"
		return out
	}

	vis := m.visible()
	if len(vis) == 0 {
		out += dimStyle.Render("no ingredients match the current filters") + "\n"
	}
	for i, ing := range vis {
		qty := strconv.FormatFloat(ing.Quantity, 'f', -1, 64)
		line := fmt.Sprintf("%-24s %8s %-8s  reorder at %-4d %-14s %8s",
			ing.Name, qty, ing.Unit, ing.ReorderPoint, ing.Location,
			ing.UnitCost.StringFixed(2))
		if ing.LowStock() {
			line += "  " + lowStockStyle.Render("LOW")
		}
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		out += line + "\n"
	}

	out += "\n" + dimStyle.Render("[/] search  [f] low stock  [c] location  [a] add  [e] edit  [d] delete  [r] refresh  [q] quit")
	if m.err != "" {
		out += "\n" + errorStyle.Render(m.err)
	} else if m.status != "" {
		out += "\n" + statusStyle.Render(m.status)
	}
	return out
}

// Commands

func fetchIngredients(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		items, err := api.List()
		if err != nil {
			return errMsg{err}
		}
		return itemsMsg(items)
	}
}

func saveIngredient(api *client.Client, id uint, p inventory.Payload) tea.Cmd {
	return func() tea.Msg {
		var (
			ing *models.Ingredient
			err error
		)
		if id == 0 {
			ing, err = api.Create(p)
		} else {
			ing, err = api.Update(id, p)
		}
		if err != nil {
			return errMsg{err}
		}
		return savedMsg{ing}
	}
}

func deleteIngredient(api *client.Client, id uint) tea.Cmd {
	return func() tea.Msg {
		if err := api.Delete(id); err != nil {
			return errMsg{err}
		}
		return deletedMsg{id}
	}
}

func main() {
	api := client.New()
	if !api.Ping() {
		fmt.Printf("warning: API at %s is not reachable\n", api.BaseURL)
	}

	p := tea.NewProgram(initialModel(api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("error running program:", err)
		os.Exit(1)
	}
}
