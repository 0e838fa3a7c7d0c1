package search

import (
	"strings"
	"time"
)

// DefaultDebounce is how long typing must pause before a query is sent.
const DefaultDebounce = 300 * time.Millisecond

// State is the request phase of a Session.
type State int

const (
	Idle State = iota
	Pending
	Searching
	Shown
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Searching:
		return "searching"
	case Shown:
		return "shown"
	}
	return "idle"
}

// Tick asks the caller to call Fire(Seq) after Delay.
type Tick struct {
	Seq   uint64
	Delay time.Duration
}

// Session is the suggestion list state machine. Every Input bumps a sequence
// number; ticks and results carrying an older number are stale and ignored,
// so only the last query of a burst is sent and late answers never overwrite
// newer ones. Session is not safe for concurrent use; the event loop owns it.
type Session struct {
	minLen int
	delay  time.Duration

	seq     uint64
	state   State
	query   string
	results []Candidate
	open    bool
	sel     int
}

// NewSession builds a session. Non-positive arguments use the defaults.
func NewSession(minLen int, delay time.Duration) *Session {
	if minLen <= 0 {
		minLen = MinQueryLength
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Session{minLen: minLen, delay: delay, sel: -1}
}

// Input records new text and schedules a query for it.
func (s *Session) Input(text string) Tick {
	s.seq++
	s.query = text
	s.sel = -1
	s.state = Pending
	return Tick{Seq: s.seq, Delay: s.delay}
}

// Fire is called when a tick elapses. ok is true when the caller should
// run the returned query against a provider.
func (s *Session) Fire(seq uint64) (query string, ok bool) {
	if seq != s.seq || s.state != Pending {
		return "", false
	}
	if !longEnough(s.query, s.minLen) {
		s.reset()
		return "", false
	}
	s.state = Searching
	return strings.TrimSpace(s.query), true
}

// Deliver hands provider results back. Stale results are discarded and
// Deliver returns false.
func (s *Session) Deliver(seq uint64, results []Candidate) bool {
	if seq != s.seq || s.state != Searching {
		return false
	}
	s.results = results
	s.sel = -1
	if len(results) == 0 {
		s.reset()
		return true
	}
	s.open = true
	s.state = Shown
	return true
}

// Down moves the highlight one entry down, stopping at the last.
func (s *Session) Down() {
	if !s.open || len(s.results) == 0 {
		return
	}
	s.sel = min(s.sel+1, len(s.results)-1)
}

// Up moves the highlight one entry up, stopping at the first.
func (s *Session) Up() {
	if !s.open || len(s.results) == 0 {
		return
	}
	s.sel = max(s.sel-1, 0)
}

// Commit returns the highlighted candidate and closes the list. ok is false
// when nothing is highlighted.
func (s *Session) Commit() (Candidate, bool) {
	if !s.open || s.sel < 0 || s.sel >= len(s.results) {
		return Candidate{}, false
	}
	c := s.results[s.sel]
	s.close()
	return c, true
}

// Pick highlights entry i and commits it.
func (s *Session) Pick(i int) (Candidate, bool) {
	if !s.open || i < 0 || i >= len(s.results) {
		return Candidate{}, false
	}
	s.sel = i
	return s.Commit()
}

// Escape closes the list and drops any query still in flight.
func (s *Session) Escape() { s.close() }

func (s *Session) close() {
	s.seq++
	s.reset()
}

func (s *Session) reset() {
	s.results = nil
	s.open = false
	s.sel = -1
	s.state = Idle
}

func (s *Session) State() State         { return s.state }
func (s *Session) Open() bool           { return s.open }
func (s *Session) Results() []Candidate { return s.results }
func (s *Session) Selected() int        { return s.sel }
func (s *Session) Loading() bool        { return s.state == Searching }
