// Package session holds the debugger front end's transient prompt state.
// Highlighting of debugger output and user searches are suppressed while
// the debugger is mid-way through certain interactions; callers pass a State
// to the scroller and the viewer instead of consulting process globals.
package session

// State records which debugger interactions are in progress.
type State struct {
	// MiscPrompt is set while the debugger shows an ad hoc question
	// (e.g. "Make breakpoint pending on future shared library load?").
	MiscPrompt bool
	// SignalReceived is set after the user interrupts the inferior and
	// before the debugger prints its next prompt.
	SignalReceived bool
	// ListingSources is set while "info sources" output is being collected.
	ListingSources bool
	// QueryingSource is set while "info source" output is being collected.
	QueryingSource bool
	// Listing is set while a "list" command is running.
	Listing bool
	// ListFailed is set when the last "list" command reported an error.
	ListFailed bool
}

// SuppressHighlight reports whether debugger output should be shown plain.
// Output produced while the front end is parsing a command's reply is raw
// protocol text, not user-facing output.
func (s *State) SuppressHighlight() bool {
	if s == nil {
		return false
	}
	return s.ListingSources || s.QueryingSource || s.Listing
}

// SuppressSearch reports whether search requests should be refused.
func (s *State) SuppressSearch() bool {
	if s == nil {
		return false
	}
	return s.MiscPrompt || s.SignalReceived || s.ListFailed
}

// Idle reports whether no interaction is in progress.
func (s *State) Idle() bool {
	return !s.SuppressHighlight() && !s.SuppressSearch()
}

// Reset clears every flag.
func (s *State) Reset() {
	*s = State{}
}
