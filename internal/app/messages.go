package app

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/avitaltamir/sqli/internal/collection"
	"github.com/avitaltamir/sqli/internal/driver"
)

// QueryFinishedMsg carries a query result back onto the event loop.
type QueryFinishedMsg struct {
	Connection string
	Query      string
	Result     driver.Result
	Err        error
	// UsedPassword is set when the query ran with a prompted password.
	UsedPassword bool
}

// CollectionsLoadedMsg carries a fresh listing of the collection store.
type CollectionsLoadedMsg struct {
	Collections []collection.Collection
	Err         error
}

// FileChangeMsg is sent when a watched collection directory changes.
type FileChangeMsg struct {
	Path string
	Op   fsnotify.Op
}

// fileChangeDebounceMsg fires once the burst of file changes has settled.
type fileChangeDebounceMsg struct{}

// tickMsg drives the spinner and status expiry.
type tickMsg time.Time

// ErrorMsg represents an error that should be displayed.
type ErrorMsg struct {
	Err error
}

// StatusMsg updates the status bar with a message.
type StatusMsg struct {
	Text string
}
