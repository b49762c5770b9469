package shop

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shopfront/internal/cart"
	"shopfront/internal/catalog"
)

func (m Model) View() string {
	if !m.ready {
		return "starting shopfront..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if msg := m.store.Err(); msg != "" {
		b.WriteString(m.styles.Error.Render("✗ "+msg) + m.styles.Muted.Render("  (r retry · x dismiss)"))
		b.WriteString("\n")
	}

	switch m.mode {
	case detailView:
		b.WriteString(m.viewport.View())
	case cartView:
		b.WriteString(m.renderCart())
	default:
		b.WriteString(m.renderBrowse())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render("SHOPFRONT")
	badge := m.styles.CartBadge.Render(fmt.Sprintf("cart %d · %s", m.cart.Count(), m.formatPrice(m.cart.Total())))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + badge
}

func (m Model) renderBrowse() string {
	var b strings.Builder

	b.WriteString(m.renderChips())
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if m.store.Loading() {
		b.WriteString(m.spinner.View() + m.styles.Muted.Render(" loading catalog..."))
		b.WriteString("\n")
	}

	if len(m.visible) == 0 && !m.store.Loading() {
		if m.searchInput.Value() != "" {
			b.WriteString(m.styles.Muted.Render("no products match your search"))
		} else {
			b.WriteString(m.styles.Muted.Render("no products"))
		}
		b.WriteString("\n")
	}

	rows := m.visibleWindow()
	for i, p := range m.visible {
		if i < rows.start || i >= rows.end {
			continue
		}
		b.WriteString(m.renderProductRow(p, i == m.cursor))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n" + m.styles.Success.Render(m.status))
	}
	return b.String()
}

// listWindow is the scroll window over the visible products.
type listWindow struct{ start, end int }

func (m Model) visibleWindow() listWindow {
	max := m.height - 10
	if max < 3 {
		max = 3
	}
	if len(m.visible) <= max {
		return listWindow{0, len(m.visible)}
	}
	start := m.cursor - max/2
	if start < 0 {
		start = 0
	}
	end := start + max
	if end > len(m.visible) {
		end = len(m.visible)
		start = end - max
	}
	return listWindow{start, end}
}

func (m Model) renderProductRow(p catalog.Product, selected bool) string {
	marker := "  "
	title := truncate(p.Title, 48)
	line := fmt.Sprintf("%-48s  %10s  %s", title, m.formatPrice(p.Price), m.styles.Muted.Render(p.Category))
	if selected {
		marker = m.styles.Selected.Render("▸ ")
		return marker + m.styles.Selected.Render(line)
	}
	return marker + line
}

func (m Model) renderChips() string {
	var parts []string
	for i, c := range m.chips() {
		if i == m.catCursor {
			parts = append(parts, m.styles.ChipActive.Render(c))
		} else {
			parts = append(parts, m.styles.Chip.Render(c))
		}
	}
	return strings.Join(parts, " ")
}

// renderDetail builds the product detail screen content. The description is
// markdown-rendered when a renderer is available.
func (m Model) renderDetail(p catalog.Product) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(m.styles.Price.Render(m.formatPrice(p.Price)))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("   %s · rated %.1f (%d reviews)", p.Category, p.Rating.Rate, p.Rating.Count)))
	b.WriteString("\n\n")
	b.WriteString(m.safeRenderMarkdown(p.Description))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("image: " + p.Image))
	return m.styles.Panel.Render(b.String())
}

// safeRenderMarkdown renders markdown with panic recovery; glamour panics on
// some pathological inputs and a product description is remote data.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}

func (m Model) renderCart() string {
	items := m.cart.Items()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Your Cart"))
	b.WriteString("\n\n")

	if len(items) == 0 {
		b.WriteString(m.styles.Muted.Render("cart is empty"))
		b.WriteString("\n")
	}

	for i, it := range items {
		b.WriteString(m.renderCartRow(it, i == m.cartCursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Bold.Render("Total: ") + m.styles.CartTotal.Render(m.formatPrice(m.cart.Total())))
	if m.status != "" {
		b.WriteString("\n\n" + m.styles.Success.Render(m.status))
	}
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderCartRow(it cart.Item, selected bool) string {
	line := fmt.Sprintf("%2d × %-40s %10s", it.Quantity, truncate(it.Product.Title, 40), m.formatPrice(it.Subtotal()))
	if selected {
		return m.styles.Selected.Render("▸ " + line)
	}
	return "  " + line
}

func (m Model) renderFooter() string {
	var help string
	switch {
	case m.searching:
		help = "type to filter · enter keep · esc clear"
	case m.mode == detailView:
		help = "a add to cart · esc back · ↑/↓ scroll"
	case m.mode == cartView:
		help = "↑/↓ select · +/- quantity · x remove · C clear · enter checkout · esc close"
	default:
		help = "↑/↓ products · ←/→ category · / search · a add · enter details · c cart · q quit"
	}
	return m.styles.Footer.Render(help)
}

func (m Model) formatPrice(v float64) string {
	return fmt.Sprintf("%s%.2f", m.cfg.UI.Currency, v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
