// Package chatstate holds the serialized conversation state for one active
// session. Stream fragments, persistence confirmations, realtime inserts and
// user actions all mutate the list through reducer-style transitions keyed
// by message id; a transition against an id that is not present is a no-op,
// never an insert, so late callbacks from a finished stream land harmlessly.
package chatstate

import (
	"sync"
	"time"

	"github.com/best200-lab/juristmindchat/pkg/progress"
)

// Sender distinguishes the two turn authors.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Turn is one conversation turn. ID is the local identifier, collision-free
// within a session; DBID is the server-assigned id, empty until persisted.
type Turn struct {
	ID        string
	DBID      string
	Content   string
	Sender    Sender
	Timestamp time.Time
	Steps     []progress.Step // nil for non-legal turns
	Streaming bool
}

// Store is the ordered turn list for one session.
type Store struct {
	mu    sync.Mutex
	turns []Turn
}

func NewStore() *Store {
	return &Store{}
}

// Append adds a turn optimistically, before server confirmation.
func (s *Store) Append(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, t)
}

// Replace swaps the whole list, used when loading a persisted session. An
// empty list is valid.
func (s *Store) Replace(turns []Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = make([]Turn, len(turns))
	copy(s.turns, turns)
}

func (s *Store) index(id string) int {
	for i := range s.turns {
		if s.turns[i].ID == id {
			return i
		}
	}
	return -1
}

// Confirm backfills the server id for an optimistic turn.
func (s *Store) Confirm(id, dbID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.turns[i].DBID = dbID
	}
}

// SetContent replaces a turn's content with the running full string. Content
// only ever grows while streaming; the caller feeds fragments in arrival
// order.
func (s *Store) SetContent(id, full string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.turns[i].Content = full
	}
}

// SetSteps stores the latest progress snapshot on an assistant turn.
func (s *Store) SetSteps(id string, steps []progress.Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.turns[i].Steps = steps
	}
}

// SetStreaming flips the streaming flag.
func (s *Store) SetStreaming(id string, streaming bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.turns[i].Streaming = streaming
	}
}

// MergeInserted appends a row delivered over the realtime channel unless a
// turn already carries its server id. Keeps the client's own optimistic
// insert from duplicating when it arrives back via the push channel.
func (s *Store) MergeInserted(t Turn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.DBID != "" {
		for i := range s.turns {
			if s.turns[i].DBID == t.DBID {
				return false
			}
		}
	}
	s.turns = append(s.turns, t)
	return true
}

// DropAssistantAfterLatestUser implements regeneration: it locates the most
// recent user turn and, when the turn right after it is an assistant turn,
// removes that assistant turn locally. No server-side delete happens. It
// returns the user turn's content for resubmission.
func (s *Store) DropAssistantAfterLatestUser() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Sender != SenderUser {
			continue
		}
		question := s.turns[i].Content
		if i+1 < len(s.turns) && s.turns[i+1].Sender == SenderAI {
			s.turns = append(s.turns[:i+1], s.turns[i+2:]...)
		}
		return question, true
	}
	return "", false
}

// Turns returns a copy of the current list.
func (s *Store) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}
