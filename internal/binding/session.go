package binding

import (
	"fmt"
	"sync"
	"time"
)

// View is everything the page displays for one session.
type View struct {
	Selection  Selection       `json:"selection"`
	Rate       *RateView       `json:"rate"`
	Department *DepartmentView `json:"department"`
}

// Session is one user's selection state. Events are applied one at a time in
// arrival order; a failed event leaves the previous view in place.
type Session struct {
	reg *Registry

	mu       sync.Mutex
	view     View
	lastSeen time.Time
}

// NewSession builds a session and renders its initial view from defaults.
func NewSession(reg *Registry, defaults Selection) (*Session, error) {
	s := &Session{reg: reg, lastSeen: time.Now()}
	for _, ev := range []Event{
		{Source: SourceCategory, Value: string(defaults.Category)},
		{Source: SourceDepartment, Value: defaults.Department},
	} {
		if _, err := s.Dispatch(ev); err != nil {
			return nil, fmt.Errorf("initial %s: %w", ev.Source, err)
		}
	}
	return s, nil
}

// Fork returns a new session starting from s's committed view. Views are
// never modified after commit, so both sessions may share it.
func (s *Session) Fork() *Session {
	return &Session{reg: s.reg, view: s.View(), lastSeen: time.Now()}
}

// Dispatch runs the handler for ev and commits its result.
func (s *Session) Dispatch(ev Event) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	u, err := s.reg.Handle(ev)
	if err != nil {
		return s.view, err
	}
	next := s.view
	if u.Rate != nil {
		next.Rate = u.Rate
		next.Selection.Category = u.Rate.Field
	}
	if u.Department != nil {
		next.Department = u.Department
		next.Selection.Department = u.Department.Department
	}
	s.view = next
	return next, nil
}

// View returns the committed view. Derived slices are never modified after
// commit, so the returned value is safe to read concurrently.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.view
}

// IdleSince reports when the session was last used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
