package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
	"github.com/unkn0wn-root/odatacomplete/internal/fetcher"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.width-12, 10)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case suggestionsMsg:
		m.applySuggestions(msg)
		return m, nil
	case recentMsg:
		m.applyRecent(msg)
		return m, nil
	case selectionSavedMsg:
		if msg.err != nil {
			m.logger.Warn("record selection", "err", msg.err)
			m.setStatus("History unavailable: "+errdef.Message(msg.err), statusWarn)
		}
		return m, nil
	case historyForgotMsg:
		return m, m.applyForgot(msg)
	case historyClearedMsg:
		if msg.err != nil {
			m.logger.Warn("clear history", "err", msg.err)
			m.setStatus("History unavailable: "+errdef.Message(msg.err), statusWarn)
			return m, nil
		}
		m.setStatus("History cleared", statusSuccess)
		return m, m.loadRecentCmd()
	case clipboardMsg:
		if msg.err != nil {
			m.setStatus("Clipboard unavailable", statusWarn)
			return m, nil
		}
		m.setStatus("Copied "+msg.record.Selection(), statusSuccess)
		return m, nil
	case statusMsg:
		m.status = msg
		return m, nil
	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.fetcher.Cancel()
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return nil
	case key.Matches(msg, m.keys.Select):
		c, ok := m.highlighted()
		if !ok {
			return nil
		}
		return m.pick(c)
	case key.Matches(msg, m.keys.Copy):
		c, ok := m.highlighted()
		if !ok {
			if m.selected == nil {
				return nil
			}
			c = *m.selected
		}
		return m.copyCmd(c)
	case key.Matches(msg, m.keys.Forget):
		e, ok := m.highlightedEntry()
		if !ok {
			return nil
		}
		return m.forgetCmd(e)
	case key.Matches(msg, m.keys.Wipe):
		return m.clearHistoryCmd()
	case key.Matches(msg, m.keys.Clear):
		if m.input.Value() == "" {
			m.fetcher.Cancel()
			return tea.Quit
		}
		m.input.SetValue("")
		return m.onInputChanged()
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == prev {
		return cmd
	}
	return tea.Batch(cmd, m.onInputChanged())
}

func (m *Model) moveCursor(delta int) {
	n := len(m.suggestions)
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

// onInputChanged starts a lookup for the new text. Blank input drops any
// in-flight request and shows recent picks instead.
func (m *Model) onInputChanged() tea.Cmd {
	text := m.input.Value()
	m.selected = nil
	m.query = text

	if strings.TrimSpace(text) == "" {
		m.fetcher.Cancel()
		m.pending = false
		m.pendingGen = 0
		return m.loadRecentCmd()
	}

	wasPending := m.pending
	p := m.fetcher.Start(context.Background(), fetcher.FilterInfo{Text: text, Source: m.cfg.Source})
	m.pending = true
	m.pendingGen = p.Generation()
	cmds := []tea.Cmd{fetchCmd(p)}
	if !wasPending {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *Model) applySuggestions(msg suggestionsMsg) {
	if !m.pending || msg.gen != m.pendingGen {
		m.logger.Debug("dropping stale suggestions", "query", msg.query, "gen", msg.gen, "current", m.pendingGen)
		return
	}
	m.pending = false
	m.recentMode = false

	if msg.err != nil && !errdef.Is(msg.err, errdef.CodeCanceled) {
		m.setStatus("Lookup failed: "+errdef.Message(msg.err), statusError)
	} else if msg.err == nil {
		if msg.result.Duration > 0 {
			m.latency.Add(msg.result.Duration)
		}
		m.setStatus(matchSummary(msg.result), statusInfo)
	}
	m.cursor = 0
	m.holder.ReplaceAll(msg.result.Customers)
}

func (m *Model) applyRecent(msg recentMsg) {
	if m.input.Value() != "" {
		return
	}
	if msg.err != nil {
		m.logger.Warn("load recent selections", "err", msg.err)
		m.setStatus("History unavailable: "+errdef.Message(msg.err), statusWarn)
	}
	records := make([]customer.Customer, 0, len(msg.entries))
	for _, e := range msg.entries {
		records = append(records, e.Customer)
	}
	m.recentMode = true
	m.recent = msg.entries
	m.cursor = 0
	m.holder.ReplaceAll(records)
	m.recentRev = m.holder.Revision()
}

func (m *Model) applyForgot(msg historyForgotMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("forget selection", "id", msg.entry.ID, "err", msg.err)
		m.setStatus("History unavailable: "+errdef.Message(msg.err), statusWarn)
		return nil
	}
	if msg.removed {
		m.setStatus("Forgot "+msg.entry.Customer.Selection(), statusSuccess)
	}
	return m.loadRecentCmd()
}

// pick writes the customer back into the input and records it in history.
func (m *Model) pick(c customer.Customer) tea.Cmd {
	m.fetcher.Cancel()
	m.pending = false
	m.pendingGen = 0

	picked := c
	m.selected = &picked
	m.input.SetValue(c.Selection())
	m.input.CursorEnd()
	m.holder.ReplaceAll(nil)
	m.setStatus("Selected "+c.Selection(), statusSuccess)
	return m.saveSelectionCmd(c, m.query)
}

func matchSummary(res fetcher.Result) string {
	took := ""
	if res.Duration > 0 {
		took = " in " + res.Duration.Round(time.Millisecond).String()
	}
	switch n := len(res.Customers); n {
	case 0:
		return "No matching customers" + took
	case 1:
		return "1 match" + took
	default:
		return fmt.Sprintf("%d matches%s", n, took)
	}
}
