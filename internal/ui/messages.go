package ui

import (
	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/fetcher"
	"github.com/unkn0wn-root/odatacomplete/internal/history"
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
	statusSuccess
)

type statusMsg struct {
	text  string
	level statusLevel
}

// suggestionsMsg carries the outcome of one fetch back to Update.
type suggestionsMsg struct {
	gen    uint64
	query  string
	result fetcher.Result
	err    error
}

type recentMsg struct {
	entries []history.Entry
	err     error
}

type selectionSavedMsg struct {
	entry history.Entry
	err   error
}

type clipboardMsg struct {
	record customer.Customer
	err    error
}

type historyForgotMsg struct {
	entry   history.Entry
	removed bool
	err     error
}

type historyClearedMsg struct {
	err error
}
