package shop

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/cart"
	"shopfront/internal/catalog"
	"shopfront/internal/config"
)

type stubClient struct {
	products   []catalog.Product
	categories []string
	byCategory map[string][]catalog.Product
}

func (s *stubClient) Products(ctx context.Context) ([]catalog.Product, error) {
	return s.products, nil
}

func (s *stubClient) ProductByID(ctx context.Context, id int) (catalog.Product, error) {
	return catalog.Product{}, nil
}

func (s *stubClient) Categories(ctx context.Context) ([]string, error) {
	return s.categories, nil
}

func (s *stubClient) ProductsByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	return s.byCategory[category], nil
}

var stubProducts = []catalog.Product{
	{ID: 1, Title: "Red Shoe", Price: 19.99, Category: "footwear"},
	{ID: 2, Title: "Blue Hat", Price: 9.99, Category: "red accessories"},
	{ID: 3, Title: "Plain Mug", Price: 4.50, Category: "kitchen"},
}

// newTestModel builds a model over a pre-populated store and replays a
// window size so the view is ready.
func newTestModel(t *testing.T) Model {
	t.Helper()
	client := &stubClient{
		products:   stubProducts,
		categories: []string{"footwear", "kitchen"},
		byCategory: map[string][]catalog.Product{
			"footwear": stubProducts[:1],
		},
	}
	store := catalog.NewStore(client, nil)
	require.NoError(t, store.FetchProducts(context.Background(), ""))
	require.NoError(t, store.FetchCategories(context.Background()))

	m := NewModel(config.Default(), store, cart.New(nil), nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	got := next.(Model)
	got.applyFilter()
	return got
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestSearchFiltersList(t *testing.T) {
	m := newTestModel(t)
	require.Len(t, m.visible, 3)

	m = update(t, m, key("/"))
	assert.True(t, m.searching)

	for _, r := range "red" {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	// "red" hits both the Red Shoe title and the "red accessories" category.
	assert.Len(t, m.visible, 2)

	m = update(t, m, key("esc"))
	assert.False(t, m.searching)
	assert.Len(t, m.visible, 3, "esc clears the query and restores the full list")
}

func TestAddToCartFromBrowse(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("a"))

	items := m.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Product.ID)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCartToggle(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("c"))
	assert.Equal(t, cartView, m.mode)
	assert.True(t, m.cart.IsOpen())

	m = update(t, m, key("c"))
	assert.Equal(t, browseView, m.mode)
	assert.False(t, m.cart.IsOpen())
}

func TestCartQuantityKeys(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("a"))
	m = update(t, m, key("c"))

	m = update(t, m, key("+"))
	require.Len(t, m.cart.Items(), 1)
	assert.Equal(t, 2, m.cart.Items()[0].Quantity)

	m = update(t, m, key("-"))
	m = update(t, m, key("-"))
	assert.Zero(t, m.cart.Len(), "decrementing to zero removes the line")
}

func TestCategoryChipSelection(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, []string{"all", "footwear", "kitchen"}, m.chips())

	next, cmd := m.Update(key("l"))
	m = next.(Model)
	assert.Equal(t, 1, m.catCursor)
	assert.Equal(t, "footwear", m.store.SelectedCategory())
	assert.NotNil(t, cmd, "moving the chip must dispatch the scoped fetch")

	// Run the dispatched command synchronously and feed its message back.
	msg := extractCatalogMsg(t, cmd)
	m = update(t, m, msg)
	assert.Len(t, m.visible, 1)
	assert.Equal(t, "Red Shoe", m.visible[0].Title)

	next, _ = m.Update(key("h"))
	m = next.(Model)
	assert.Zero(t, m.catCursor)
	assert.Empty(t, m.store.SelectedCategory(), "the all chip clears the filter")
}

// extractCatalogMsg runs a (possibly batched) command until it yields the
// catalogUpdatedMsg produced by a fetch dispatch.
func extractCatalogMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case catalogUpdatedMsg:
			return msg
		}
	}
	t.Fatal("no catalogUpdatedMsg produced")
	return nil
}

func TestDetailView(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("enter"))
	assert.Equal(t, detailView, m.mode)

	m = update(t, m, key("esc"))
	assert.Equal(t, browseView, m.mode)
}

func TestCheckoutIsStub(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("a"))
	m = update(t, m, key("c"))
	m = update(t, m, key("enter"))

	assert.Contains(t, m.status, "not available")
	assert.Equal(t, 1, m.cart.Len(), "checkout must not mutate the cart")
}

func TestViewRenders(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "SHOPFRONT")
	assert.Contains(t, out, "Red Shoe")
}
