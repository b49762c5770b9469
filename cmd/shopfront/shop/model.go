// Package shop provides the interactive storefront TUI. Following the
// layout used across the codebase, it is split into:
//   - model.go: types, construction, Init, fetch commands (this file)
//   - update.go: the Update loop and key handling
//   - view.go: rendering
//
// The package is pure presentation: it reads the catalog and cart state
// through their snapshot accessors and forwards user intents into the named
// operations. Derived values (the filtered product list) are recomputed from
// the canonical state on every change, never stored independently.
package shop

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"shopfront/cmd/shopfront/ui"
	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/config"
	"shopfront/internal/search"
)

// viewMode determines which screen is active.
type viewMode int

const (
	browseView viewMode = iota
	detailView
	cartView
)

// allCategories is the synthetic first chip clearing the category filter.
const allCategories = "all"

// catalogUpdatedMsg arrives when a fetch command resolves. The catalog store
// has already reconciled the result by then; the message only tells the UI
// to re-read its snapshots.
type catalogUpdatedMsg struct{ err error }

// Model is the bubbletea model for the storefront.
type Model struct {
	cfg    *config.Config
	store  *catalog.Store
	cart   *cart.Cart
	logger *zap.Logger

	// UI components
	searchInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model
	styles      ui.Styles
	renderer    *glamour.TermRenderer

	mode      viewMode
	searching bool

	// Browse state
	cursor    int
	catCursor int
	visible   []catalog.Product

	// Cart panel state
	cartCursor int

	width  int
	height int
	ready  bool
	status string
}

// NewModel constructs the storefront model around an already-wired catalog
// store and cart.
func NewModel(cfg *config.Config, store *catalog.Store, crt *cart.Cart, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	si := textinput.New()
	si.Placeholder = "search products"
	si.Prompt = "/ "
	si.CharLimit = 80

	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Selected

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		// Descriptions fall back to plain text.
		renderer = nil
		logger.Warn("glamour renderer unavailable", zap.Error(err))
	}

	return Model{
		cfg:         cfg,
		store:       store,
		cart:        crt,
		logger:      logger,
		searchInput: si,
		spinner:     sp,
		styles:      styles,
		renderer:    renderer,
	}
}

// Init kicks off the initial catalog refresh and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.refreshCmd(),
		textinput.Blink,
	)
}

// refreshCmd dispatches the products and categories fetches concurrently on
// their own goroutines. The store marks each workflow pending synchronously
// inside the fetch, so the spinner reflects in-flight work on the next
// frame.
func (m Model) refreshCmd() tea.Cmd {
	store, timeout := m.store, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return catalogUpdatedMsg{err: store.Refresh(ctx)}
	}
}

// fetchProductsCmd dispatches a product fetch scoped to the given category
// ("" for all products).
func (m Model) fetchProductsCmd(category string) tea.Cmd {
	store, timeout := m.store, m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return catalogUpdatedMsg{err: store.FetchProducts(ctx, category)}
	}
}

// applyFilter recomputes the visible product list from the canonical list
// and the current query, clamping the cursor to the new length.
func (m *Model) applyFilter() {
	m.visible = search.Filter(m.store.Products(), m.searchInput.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// chips returns the category chip row: "all" plus the fetched categories.
func (m Model) chips() []string {
	return append([]string{allCategories}, m.store.Categories()...)
}

// selectedProduct returns the product under the cursor, if any.
func (m Model) selectedProduct() (catalog.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return catalog.Product{}, false
	}
	return m.visible[m.cursor], true
}

// Run wires the model into a bubbletea program on the alternate screen and
// blocks until the user quits.
func Run(cfg *config.Config, store *catalog.Store, crt *cart.Cart, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(cfg, store, crt, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
