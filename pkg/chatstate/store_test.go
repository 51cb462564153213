package chatstate

import (
	"testing"
	"time"
)

func TestMergeInsertedDeduplicatesByServerID(t *testing.T) {
	s := NewStore()
	s.Append(Turn{ID: "local-1", Sender: SenderUser, Content: "question"})
	s.Confirm("local-1", "db-42")

	added := s.MergeInserted(Turn{ID: "rt-1", DBID: "db-42", Sender: SenderUser, Content: "question"})
	if added {
		t.Error("row with known server id was appended")
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}

	added = s.MergeInserted(Turn{ID: "rt-2", DBID: "db-43", Sender: SenderAI, Content: "answer"})
	if !added {
		t.Error("row with new server id was dropped")
	}
	if s.Len() != 2 {
		t.Errorf("len = %d, want 2", s.Len())
	}
}

func TestTransitionsAgainstUnknownIDAreNoOps(t *testing.T) {
	s := NewStore()
	s.Append(Turn{ID: "a", Sender: SenderAI})

	// Late callbacks from a finished stream target turns that may have been
	// cleared; they must not insert or panic.
	s.SetContent("gone", "text")
	s.SetStreaming("gone", false)
	s.Confirm("gone", "db-1")

	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
	if turns := s.Turns(); turns[0].Content != "" || turns[0].DBID != "" {
		t.Errorf("unknown-id transition mutated existing turn: %+v", turns[0])
	}
}

func TestSetContentGrowsMonotonically(t *testing.T) {
	s := NewStore()
	s.Append(Turn{ID: "ai-1", Sender: SenderAI, Streaming: true})

	fragments := []string{"Hel", "Hello", "Hello wor", "Hello world"}
	for _, running := range fragments {
		s.SetContent("ai-1", running)
	}
	if got := s.Turns()[0].Content; got != "Hello world" {
		t.Errorf("content = %q, want final running string", got)
	}
}

func TestDropAssistantAfterLatestUser(t *testing.T) {
	s := NewStore()
	s.Append(Turn{ID: "u1", Sender: SenderUser, Content: "first question", Timestamp: time.Now()})
	s.Append(Turn{ID: "a1", Sender: SenderAI, Content: "first answer"})
	s.Append(Turn{ID: "u2", Sender: SenderUser, Content: "second question"})
	s.Append(Turn{ID: "a2", Sender: SenderAI, Content: "second answer"})

	question, ok := s.DropAssistantAfterLatestUser()
	if !ok {
		t.Fatal("no user turn found")
	}
	if question != "second question" {
		t.Errorf("question = %q, want the latest user turn", question)
	}
	if s.Len() != 3 {
		t.Errorf("len = %d, want 3 (assistant turn removed)", s.Len())
	}
	for _, turn := range s.Turns() {
		if turn.ID == "a2" {
			t.Error("assistant turn a2 still present")
		}
	}
	if turns := s.Turns(); turns[1].ID != "a1" {
		t.Error("earlier assistant turn was touched")
	}
}

func TestDropAssistantWithNoTrailingAssistant(t *testing.T) {
	s := NewStore()
	s.Append(Turn{ID: "u1", Sender: SenderUser, Content: "only question"})

	question, ok := s.DropAssistantAfterLatestUser()
	if !ok || question != "only question" {
		t.Fatalf("got %q, %v", question, ok)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}

func TestReplaceAcceptsEmptyList(t *testing.T) {
	s := NewStore()
	s.Append(Turn{ID: "a", Sender: SenderUser})
	s.Replace(nil)
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0 (new empty session)", s.Len())
	}
}
