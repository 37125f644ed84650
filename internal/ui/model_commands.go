package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/fetcher"
	"github.com/unkn0wn-root/odatacomplete/internal/history"
)

const historyTimeout = 2 * time.Second

// fetchCmd performs a lookup that was already started in Update, so the
// generation order matches keystroke order even though commands run
// concurrently.
func fetchCmd(p *fetcher.Pending) tea.Cmd {
	return func() tea.Msg {
		res, err := p.Run()
		return suggestionsMsg{
			gen:    p.Generation(),
			query:  p.Info().Text,
			result: res,
			err:    err,
		}
	}
}

func (m *Model) loadRecentCmd() tea.Cmd {
	store := m.history
	limit := m.cfg.RecentLimit
	if store == nil {
		return func() tea.Msg { return recentMsg{} }
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		entries, err := store.Recent(ctx, limit)
		return recentMsg{entries: entries, err: err}
	}
}

func (m *Model) saveSelectionCmd(c customer.Customer, query string) tea.Cmd {
	store := m.history
	if store == nil {
		return nil
	}
	entry := history.Entry{Source: m.cfg.Source, Query: query, Customer: c}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		saved, err := store.Append(ctx, entry)
		return selectionSavedMsg{entry: saved, err: err}
	}
}

func (m *Model) forgetCmd(e history.Entry) tea.Cmd {
	store := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		removed, err := store.Delete(ctx, e.ID)
		return historyForgotMsg{entry: e, removed: removed, err: err}
	}
}

func (m *Model) clearHistoryCmd() tea.Cmd {
	store := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		return historyClearedMsg{err: store.Clear(ctx)}
	}
}

func (m *Model) copyCmd(c customer.Customer) tea.Cmd {
	write := m.clipboard
	return func() tea.Msg {
		return clipboardMsg{record: c, err: write(c.Selection())}
	}
}
