package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/fetcher"
	"github.com/unkn0wn-root/odatacomplete/internal/history"
	"github.com/unkn0wn-root/odatacomplete/internal/httpclient"
	"github.com/unkn0wn-root/odatacomplete/internal/mockserver"
	"github.com/unkn0wn-root/odatacomplete/internal/results"
)

type harness struct {
	model   *Model
	holder  *results.Holder
	store   *history.Store
	copied  []string
	changes int
}

func newHarness(t *testing.T, handler http.Handler) *harness {
	t.Helper()
	return newHarnessWithTimeout(t, handler, 5*time.Second)
}

func newHarnessWithTimeout(t *testing.T, handler http.Handler, timeout time.Duration) *harness {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	if handler == nil {
		handler = mockserver.New(mockserver.Fixtures()).Router()
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := history.NewStore(filepath.Join(t.TempDir(), "history.db"), 50)
	if err := store.Open(context.Background()); err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	h := &harness{holder: results.NewHolder(), store: store}
	h.holder.Subscribe(func(results.Change) { h.changes++ })

	f := fetcher.New(httpclient.NewClient(),
		fetcher.WithBaseURL(srv.URL),
		fetcher.WithHTTPOptions(httpclient.Options{Timeout: timeout}),
	)
	h.model = New(Config{
		Fetcher:    f,
		Holder:     h.holder,
		History:    store,
		ServiceURL: srv.URL,
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	})
	h.model.input.Cursor.SetMode(cursor.CursorStatic)
	t.Cleanup(h.model.Close)
	return h
}

// press sends a key to the model and returns the resulting command unexecuted.
func (h *harness) press(k tea.KeyMsg) tea.Cmd {
	_, cmd := h.model.Update(k)
	return cmd
}

func (h *harness) typeText(s string) tea.Cmd {
	var last tea.Cmd
	for _, r := range s {
		last = h.press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return last
}

// drain runs cmd and feeds every message the model reacts to back into
// Update. Timer driven messages are left alone.
func (h *harness) drain(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.drain(t, c)
		}
	case suggestionsMsg, recentMsg, selectionSavedMsg, clipboardMsg, statusMsg,
		historyForgotMsg, historyClearedMsg:
		_, next := h.model.Update(msg)
		h.drain(t, next)
	}
}

func customerIDs(records []customer.Customer) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.CustomerID)
	}
	return out
}

func sameIDs(got []customer.Customer, want ...string) bool {
	ids := customerIDs(got)
	if len(ids) != len(want) {
		return false
	}
	for i := range ids {
		if ids[i] != want[i] {
			return false
		}
	}
	return true
}
