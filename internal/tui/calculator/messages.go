package calculator

import (
	"github.com/msto63/euler/internal/euler/service"
	"github.com/msto63/euler/internal/euler/store"
)

// Message types for tea.Cmd async operations

// calculatedMsg carries the outcome of one calculation. err reports a
// history failure only.
type calculatedMsg struct {
	expression string
	result     service.Result
	err        error
}

// historyLoadedMsg is sent when history entries are loaded
type historyLoadedMsg struct {
	entries []store.Entry
	err     error
}

// historyClearedMsg is sent after the history was cleared
type historyClearedMsg struct {
	removed int
	err     error
}
