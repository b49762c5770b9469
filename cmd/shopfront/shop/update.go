package shop

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.store.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case catalogUpdatedMsg:
		// The store already reconciled the result; just re-derive the view.
		m.applyFilter()
		if chips := m.chips(); m.catCursor >= len(chips) {
			m.catCursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch m.mode {
	case detailView:
		return m.handleDetailKey(msg)
	case cartView:
		return m.handleCartKey(msg)
	default:
		return m.handleBrowseKey(msg)
	}
}

// handleSearchKey routes keys to the search input while it is focused. The
// filtered list is recomputed on every keystroke.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.searching = false
		m.applyFilter()
		return m, nil
	case tea.KeyEnter:
		m.searchInput.Blur()
		m.searching = false
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m, nil

	case "left", "h":
		return m.moveCategory(-1)

	case "right", "l":
		return m.moveCategory(1)

	case "enter":
		if p, ok := m.selectedProduct(); ok {
			m.mode = detailView
			m.viewport.SetContent(m.renderDetail(p))
			m.viewport.GotoTop()
		}
		return m, nil

	case "a", " ":
		if p, ok := m.selectedProduct(); ok {
			m.cart.Add(p)
			m.status = fmt.Sprintf("Added %s", p.Title)
		}
		return m, nil

	case "c":
		if m.cart.ToggleOpen() {
			m.mode = cartView
			m.cartCursor = 0
		} else {
			m.mode = browseView
		}
		return m, nil

	case "r":
		// Retry: re-dispatch both fetches.
		m.store.ClearError()
		return m, tea.Batch(m.spinner.Tick, m.refreshCmd())

	case "x":
		m.store.ClearError()
		return m, nil
	}

	return m, nil
}

// moveCategory shifts the active category chip and re-dispatches the scoped
// product fetch. This is the reactive layer the state core leaves to
// presentation: SetSelectedCategory alone never fetches.
func (m Model) moveCategory(delta int) (tea.Model, tea.Cmd) {
	chips := m.chips()
	next := m.catCursor + delta
	if next < 0 || next >= len(chips) {
		return m, nil
	}
	m.catCursor = next

	selected := chips[next]
	if selected == allCategories {
		selected = ""
	}
	m.store.SetSelectedCategory(selected)
	m.cursor = 0
	return m, tea.Batch(m.spinner.Tick, m.fetchProductsCmd(selected))
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = browseView
		return m, nil

	case "a", "enter", " ":
		if p, ok := m.selectedProduct(); ok {
			m.cart.Add(p)
			m.status = fmt.Sprintf("Added %s", p.Title)
		}
		return m, nil

	case "c":
		if m.cart.ToggleOpen() {
			m.mode = cartView
			m.cartCursor = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.cart.Items()

	switch msg.String() {
	case "esc", "c", "q":
		if m.cart.IsOpen() {
			m.cart.ToggleOpen()
		}
		m.mode = browseView
		return m, nil

	case "up", "k":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
		return m, nil

	case "down", "j":
		if m.cartCursor < len(items)-1 {
			m.cartCursor++
		}
		return m, nil

	case "+", "=":
		if m.cartCursor < len(items) {
			it := items[m.cartCursor]
			m.cart.SetQuantity(it.Product.ID, it.Quantity+1)
		}
		return m, nil

	case "-":
		if m.cartCursor < len(items) {
			it := items[m.cartCursor]
			// Quantity 1 minus 1 removes the line.
			m.cart.SetQuantity(it.Product.ID, it.Quantity-1)
			m.clampCartCursor()
		}
		return m, nil

	case "x", "delete":
		if m.cartCursor < len(items) {
			m.cart.Remove(items[m.cartCursor].Product.ID)
			m.clampCartCursor()
		}
		return m, nil

	case "C":
		m.cart.Clear()
		m.cartCursor = 0
		return m, nil

	case "enter":
		// Checkout is a stub: no payment flow exists.
		if m.cart.Len() > 0 {
			m.status = fmt.Sprintf("Checkout is not available in this build (total %s)", m.formatPrice(m.cart.Total()))
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) clampCartCursor() {
	if n := m.cart.Len(); m.cartCursor >= n && n > 0 {
		m.cartCursor = n - 1
	} else if n == 0 {
		m.cartCursor = 0
	}
}
