package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyQuery is returned for a blank question; no model call is made.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrBusy is returned while the conversation still has a question in flight.
	ErrBusy = errors.New("a query is already in flight for this conversation")
)

// Suggestions are example questions offered to new users.
var Suggestions = []string{
	"Split $250 bill by 4 with 15% tip",
	"55 mph to km/h",
	"Area of circle with radius 12",
}

// Role marks who authored a transcript message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one transcript line.
type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Exchange is a question paired with its answer.
type Exchange struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
	Answer         string `json:"answer"`
}

// Limits on what a Service keeps in memory.
const (
	// MaxConversations caps live transcripts. Starting one more evicts the
	// least recently used idle conversation.
	MaxConversations = 1000
	// MaxMessages caps one transcript; the oldest messages go first.
	MaxMessages = 100
)

// Service runs questions through a Solver, one at a time per conversation,
// and keeps each conversation's transcript in order.
type Service struct {
	solver  Solver
	idleTTL time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
	convs    map[string]*conversation
	now      func() time.Time
}

type conversation struct {
	messages []Message
	touched  time.Time
}

// NewService creates a service. Conversations idle for longer than idleTTL
// are dropped by Prune; idleTTL <= 0 keeps them until evicted by the cap.
func NewService(solver Solver, idleTTL time.Duration) *Service {
	return &Service{
		solver:   solver,
		idleTTL:  idleTTL,
		inFlight: make(map[string]struct{}),
		convs:    make(map[string]*conversation),
		now:      time.Now,
	}
}

// Ask solves query within a conversation, starting a new one when
// conversationID is empty. The only errors are ErrEmptyQuery and ErrBusy;
// model failures come back as a fallback answer.
func (s *Service) Ask(ctx context.Context, conversationID, query string) (Exchange, error) {
	if strings.TrimSpace(query) == "" {
		return Exchange{}, ErrEmptyQuery
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if !s.acquire(conversationID, query) {
		return Exchange{}, ErrBusy
	}
	defer s.release(conversationID)

	answer := s.solver.Solve(ctx, query)

	s.mu.Lock()
	s.record(conversationID, RoleAI, answer)
	s.mu.Unlock()

	return Exchange{ConversationID: conversationID, Query: query, Answer: answer}, nil
}

// acquire marks the conversation busy and records the question. It fails
// if a question is already outstanding.
func (s *Service) acquire(id, query string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	s.record(id, RoleUser, query)
	return true
}

func (s *Service) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// record appends a message, creating the conversation if needed. Callers
// hold s.mu.
func (s *Service) record(id string, role Role, content string) {
	conv, ok := s.convs[id]
	if !ok {
		if len(s.convs) >= MaxConversations {
			s.evictOldest()
		}
		conv = &conversation{}
		s.convs[id] = conv
	}

	now := s.now()
	conv.messages = append(conv.messages, Message{Role: role, Content: content, Time: now})
	if over := len(conv.messages) - MaxMessages; over > 0 {
		conv.messages = append(conv.messages[:0:0], conv.messages[over:]...)
	}
	conv.touched = now
}

// evictOldest drops the least recently touched conversation with nothing in
// flight. Callers hold s.mu.
func (s *Service) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, conv := range s.convs {
		if _, busy := s.inFlight[id]; busy {
			continue
		}
		if oldestID == "" || conv.touched.Before(oldest) {
			oldestID, oldest = id, conv.touched
		}
	}
	if oldestID != "" {
		delete(s.convs, oldestID)
	}
}

// Prune drops conversations idle for longer than the configured TTL and
// returns how many were removed. Conversations with a question in flight
// are kept.
func (s *Service) Prune() int {
	if s.idleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	removed := 0
	for id, conv := range s.convs {
		if _, busy := s.inFlight[id]; busy {
			continue
		}
		if conv.touched.Before(cutoff) {
			delete(s.convs, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live conversations.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}

// Transcript returns a copy of a conversation's messages, oldest first.
func (s *Service) Transcript(conversationID string) ([]Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[conversationID]
	if !ok {
		return nil, false
	}
	out := make([]Message, len(conv.messages))
	copy(out, conv.messages)
	return out, true
}
