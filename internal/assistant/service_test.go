package assistant

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// blockingSolver answers with the query once released.
type blockingSolver struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingSolver) Solve(ctx context.Context, query string) string {
	close(b.started)
	<-b.release
	return "answer to " + query
}

type echoSolver struct{}

func (echoSolver) Solve(ctx context.Context, query string) string { return "= " + query }

func TestAskStartsConversation(t *testing.T) {
	svc := NewService(echoSolver{}, time.Hour)

	ex, err := svc.Ask(context.Background(), "", "2+2")
	require.NoError(t, err)
	require.NotEmpty(t, ex.ConversationID)
	require.Equal(t, "2+2", ex.Query)
	require.Equal(t, "= 2+2", ex.Answer)
}

func TestAskRejectsBlankQuery(t *testing.T) {
	svc := NewService(echoSolver{}, time.Hour)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Ask(context.Background(), "", q)
		require.ErrorIs(t, err, ErrEmptyQuery)
	}
}

func TestAskKeepsTranscriptInOrder(t *testing.T) {
	svc := NewService(echoSolver{}, time.Hour)

	first, err := svc.Ask(context.Background(), "", "1+1")
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), first.ConversationID, "2+2")
	require.NoError(t, err)

	msgs, ok := svc.Transcript(first.ConversationID)
	require.True(t, ok)
	require.Len(t, msgs, 4)

	wantRoles := []Role{RoleUser, RoleAI, RoleUser, RoleAI}
	wantContent := []string{"1+1", "= 1+1", "2+2", "= 2+2"}
	for i, m := range msgs {
		require.Equal(t, wantRoles[i], m.Role, "message %d", i)
		require.Equal(t, wantContent[i], m.Content, "message %d", i)
	}

	_, ok = svc.Transcript("unknown")
	require.False(t, ok)
}

func TestAskRejectsOverlappingQuery(t *testing.T) {
	solver := &blockingSolver{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(solver, time.Hour)

	var wg sync.WaitGroup
	var first Exchange
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = svc.Ask(context.Background(), "conv-1", "slow question")
	}()

	<-solver.started

	_, err := svc.Ask(context.Background(), "conv-1", "impatient question")
	require.ErrorIs(t, err, ErrBusy)

	close(solver.release)
	wg.Wait()

	require.NoError(t, firstErr)
	require.Equal(t, "answer to slow question", first.Answer)

	msgs, _ := svc.Transcript("conv-1")
	require.Len(t, msgs, 2, "rejected question must not enter the transcript")
}

func TestAskAllowsNextQueryAfterAnswer(t *testing.T) {
	svc := NewService(echoSolver{}, time.Hour)

	_, err := svc.Ask(context.Background(), "conv-1", "a")
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), "conv-1", "b")
	require.NoError(t, err)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestPruneDropsIdleConversations(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(echoSolver{}, 10*time.Minute)
	svc.now = clock.now

	_, err := svc.Ask(context.Background(), "old", "1 + 1")
	require.NoError(t, err)

	clock.advance(8 * time.Minute)
	_, err = svc.Ask(context.Background(), "fresh", "2 + 2")
	require.NoError(t, err)

	clock.advance(5 * time.Minute)
	require.Equal(t, 1, svc.Prune())

	_, ok := svc.Transcript("old")
	require.False(t, ok)
	_, ok = svc.Transcript("fresh")
	require.True(t, ok)
	require.Equal(t, 1, svc.Len())
}

func TestPruneKeepsConversationInFlight(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	solver := &blockingSolver{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(solver, time.Minute)
	svc.now = clock.now

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Ask(context.Background(), "slow", "question")
	}()
	<-solver.started

	clock.advance(time.Hour)
	require.Zero(t, svc.Prune())

	close(solver.release)
	<-done

	msgs, ok := svc.Transcript("slow")
	require.True(t, ok)
	require.Len(t, msgs, 2)
}

func TestPruneDisabledWithoutTTL(t *testing.T) {
	svc := NewService(echoSolver{}, 0)
	_, err := svc.Ask(context.Background(), "conv", "q")
	require.NoError(t, err)
	require.Zero(t, svc.Prune())
	require.Equal(t, 1, svc.Len())
}

func TestConversationCountIsCapped(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(echoSolver{}, 0)
	svc.now = clock.now

	for i := 0; i < MaxConversations+5; i++ {
		clock.advance(time.Second)
		_, err := svc.Ask(context.Background(), "", "q")
		require.NoError(t, err)
	}
	require.Equal(t, MaxConversations, svc.Len())

	clock.advance(time.Second)
	ex, err := svc.Ask(context.Background(), "", "latest")
	require.NoError(t, err)
	_, ok := svc.Transcript(ex.ConversationID)
	require.True(t, ok)
	require.Equal(t, MaxConversations, svc.Len())
}

func TestTranscriptKeepsNewestMessages(t *testing.T) {
	svc := NewService(echoSolver{}, 0)

	for i := 0; i < MaxMessages; i++ {
		_, err := svc.Ask(context.Background(), "long", fmt.Sprintf("q%d", i))
		require.NoError(t, err)
	}

	msgs, ok := svc.Transcript("long")
	require.True(t, ok)
	require.Len(t, msgs, MaxMessages)
	require.Equal(t, Message{Role: RoleAI, Content: fmt.Sprintf("= q%d", MaxMessages-1), Time: msgs[len(msgs)-1].Time}, msgs[len(msgs)-1])
	require.Equal(t, RoleUser, msgs[0].Role)
	require.Equal(t, fmt.Sprintf("q%d", MaxMessages/2), msgs[0].Content)
}
