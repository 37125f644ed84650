package ui

import (
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/unkn0wn-root/odatacomplete/internal/analysis"
	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/fetcher"
	"github.com/unkn0wn-root/odatacomplete/internal/history"
	"github.com/unkn0wn-root/odatacomplete/internal/results"
	"github.com/unkn0wn-root/odatacomplete/internal/theme"
)

var _ tea.Model = (*Model)(nil)

const (
	defaultSource      = "customer-search"
	defaultRecentLimit = fetcher.MaxResults
	defaultWidth       = 80
	latencySamples     = 50
)

type Config struct {
	Fetcher     *fetcher.Fetcher
	Holder      *results.Holder
	History     *history.Store
	Theme       *theme.Theme
	Logger      *log.Logger
	Source      string
	ServiceURL  string
	RecentLimit int
	Clipboard   func(string) error
}

type Model struct {
	cfg       Config
	theme     theme.Theme
	fetcher   *fetcher.Fetcher
	holder    *results.Holder
	history   *history.Store
	logger    *log.Logger
	clipboard func(string) error

	input   textinput.Model
	spinner spinner.Model
	keys    keyMap

	suggestions []customer.Customer
	cursor      int
	recentMode  bool
	recent      []history.Entry
	recentRev   uint64
	selected    *customer.Customer

	query      string
	pending    bool
	pendingGen uint64

	status      statusMsg
	latency     *analysis.Window
	width       int
	height      int
	unsubscribe func()
}

func New(cfg Config) *Model {
	th := theme.DefaultTheme()
	if cfg.Theme != nil {
		th = *cfg.Theme
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = fetcher.New(nil)
	}
	if cfg.Holder == nil {
		cfg.Holder = results.NewHolder()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if strings.TrimSpace(cfg.Source) == "" {
		cfg.Source = defaultSource
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = defaultRecentLimit
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}

	input := textinput.New()
	input.Placeholder = "contact name, title or country"
	input.Prompt = "› "
	input.PromptStyle = th.Prompt
	input.TextStyle = lipgloss.NewStyle().Foreground(th.ActiveForeground)
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(th.InactiveForeground)
	input.CharLimit = 0
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = th.SuggestionMarker

	m := &Model{
		cfg:       cfg,
		theme:     th,
		fetcher:   cfg.Fetcher,
		holder:    cfg.Holder,
		history:   cfg.History,
		logger:    cfg.Logger,
		clipboard: cfg.Clipboard,
		input:     input,
		spinner:   spin,
		keys:      defaultKeyMap(),
		width:     defaultWidth,
		latency:   analysis.NewWindow(latencySamples),
	}
	m.unsubscribe = m.holder.Subscribe(m.onResultsChanged)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadRecentCmd())
}

// Close detaches the model from its result holder.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.fetcher.Cancel()
}

// onResultsChanged mirrors the holder into the view state. It runs on the
// Update goroutine because ReplaceAll is only called from Update.
func (m *Model) onResultsChanged(change results.Change) {
	m.suggestions = change.Items
	if m.cursor >= len(m.suggestions) {
		m.cursor = len(m.suggestions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	onRecent := m.history != nil && m.recentMode && len(change.Items) > 0
	m.keys.Forget.SetEnabled(onRecent)
	m.keys.Wipe.SetEnabled(onRecent)
}

// Value is the current input text.
func (m *Model) Value() string {
	return m.input.Value()
}

// Selected is the last picked customer, if any.
func (m *Model) Selected() (customer.Customer, bool) {
	if m.selected == nil {
		return customer.Customer{}, false
	}
	return *m.selected, true
}

func (m *Model) highlighted() (customer.Customer, bool) {
	return m.holder.At(m.cursor)
}

// highlightedEntry maps the cursor to its history row. It fails once the
// holder has moved past the recent list it was built from.
func (m *Model) highlightedEntry() (history.Entry, bool) {
	if !m.recentMode || m.holder.Revision() != m.recentRev {
		return history.Entry{}, false
	}
	if m.cursor < 0 || m.cursor >= len(m.recent) {
		return history.Entry{}, false
	}
	return m.recent[m.cursor], true
}

func (m *Model) setStatus(text string, level statusLevel) {
	m.status = statusMsg{text: text, level: level}
}
