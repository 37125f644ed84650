package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
)

const (
	labelColumn = 36
	minWidth    = 40
)

func (m *Model) View() string {
	width := max(m.width, minWidth)
	inner := width - 4

	sections := []string{
		m.renderHeader(inner),
		m.renderInput(inner),
		m.renderSuggestions(inner),
	}
	if detail := m.renderDetail(inner); detail != "" {
		sections = append(sections, detail)
	}
	sections = append(sections, m.renderStatus(inner), m.renderCommandBar(inner))
	return m.theme.AppFrame.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderHeader(width int) string {
	brand := m.theme.HeaderBrand.Render("odatacomplete")
	service := m.cfg.ServiceURL
	if service == "" {
		return brand
	}
	room := width - lipgloss.Width(brand) - 1
	return brand + " " + m.theme.HeaderValue.Render(ansi.Truncate(service, max(room, 0), "…"))
}

func (m *Model) renderInput(width int) string {
	style := m.theme.InputBorder
	line := m.input.View()
	if m.pending {
		style = m.theme.InputBorderBusy
		line += " " + m.spinner.View()
	}
	return style.Width(width - 2).Render(ansi.Truncate(line, width-2, ""))
}

func (m *Model) renderSuggestions(width int) string {
	title := "Suggestions"
	if m.recentMode {
		title = "Recent picks"
	}
	lines := []string{m.theme.SectionTitle.Render(title)}

	if len(m.suggestions) == 0 {
		lines = append(lines, m.theme.Empty.Render(m.emptyText()))
		return strings.Join(lines, "\n")
	}
	for i, c := range m.suggestions {
		lines = append(lines, m.renderRow(c, i == m.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) emptyText() string {
	switch {
	case m.pending:
		return "Searching…"
	case m.selected != nil:
		return "Picked " + m.selected.Selection()
	case strings.TrimSpace(m.query) != "":
		return "No matching customers"
	case m.recentMode:
		return "Type to search customers"
	default:
		return ""
	}
}

func (m *Model) renderRow(c customer.Customer, active bool, width int) string {
	col := min(labelColumn, max(width/2, 10))
	label := fitColumn(c.Label(), col)
	meta := c.Summary()

	if active {
		row := m.theme.SuggestionMarker.Render("›") + " " + m.theme.SuggestionActive.Render(label)
		if meta != "" {
			row += " " + m.theme.SuggestionMeta.Render(meta)
		}
		return ansi.Truncate(row, width, "…")
	}
	row := m.theme.Suggestion.Render(label)
	if meta != "" {
		row += " " + m.theme.SuggestionMeta.Render(meta)
	}
	return ansi.Truncate(row, width, "…")
}

func (m *Model) renderDetail(width int) string {
	c, ok := m.highlighted()
	if !ok {
		if m.selected == nil {
			return ""
		}
		c = *m.selected
	}
	fields := [][2]string{
		{"ID", c.CustomerID},
		{"Company", c.CompanyName},
		{"Contact", c.ContactName},
		{"Title", c.ContactTitle},
		{"Address", joinNonEmpty(", ", c.Address, c.City, c.Region, c.PostalCode)},
		{"Country", c.Country},
		{"Phone", c.Phone},
		{"Fax", c.Fax},
	}
	lines := []string{m.theme.SectionTitle.Render("Details")}
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			continue
		}
		key := m.theme.SuggestionMeta.Render(runewidth.FillRight(f[0], 8))
		lines = append(lines, ansi.Truncate(key+" "+f[1], width, "…"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatus(width int) string {
	stats := m.latency.Summary().String()
	room := width
	if stats != "" {
		room -= runewidth.StringWidth(stats) + 2
	}

	text := strings.TrimSpace(m.status.text)
	var line string
	switch {
	case text == "":
		line = ""
	case m.status.level == statusError:
		line = m.theme.Error.Render(ansi.Truncate(text, max(room, 0), "…"))
	case m.status.level == statusSuccess:
		line = m.theme.Success.Render(ansi.Truncate(text, max(room, 0), "…"))
	case m.status.level == statusWarn:
		line = m.theme.Notification.Render(ansi.Truncate(text, max(room-2, 0), "…"))
	default:
		line = m.theme.StatusBar.Render(ansi.Truncate(text, max(room, 0), "…"))
	}
	if stats == "" {
		if line == "" {
			return " "
		}
		return line
	}
	gap := max(width-lipgloss.Width(line)-runewidth.StringWidth(stats), 1)
	return ansi.Truncate(line+strings.Repeat(" ", gap)+m.theme.StatusBar.Render(stats), width, "…")
}

func (m *Model) renderCommandBar(width int) string {
	divider := m.theme.CommandDivider.Render("│")
	parts := make([]string, 0, len(m.keys.bindings()))
	for i, b := range m.keys.bindings() {
		if !b.Enabled() {
			continue
		}
		seg := m.theme.CommandSegment(i)
		keyText := lipgloss.NewStyle().Foreground(seg.Key).Background(seg.Background).Bold(true).
			Render(" " + b.Help().Key)
		desc := lipgloss.NewStyle().Foreground(seg.Text).Background(seg.Background).
			Render(" " + b.Help().Desc + " ")
		parts = append(parts, keyText+desc)
	}
	return ansi.Truncate(strings.Join(parts, divider), width, "…")
}

// fitColumn pads or cuts s on grapheme boundaries so it fills exactly width
// cells.
func fitColumn(s string, width int) string {
	if w := uniseg.StringWidth(s); w <= width {
		return s + strings.Repeat(" ", width-w)
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if used+g.Width() > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += g.Width()
	}
	b.WriteString("…")
	return b.String() + strings.Repeat(" ", max(width-used-1, 0))
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
