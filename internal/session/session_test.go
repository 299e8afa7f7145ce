package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandboxagent/sandboxagent/models"
)

func TestGetOrCreateReturnsSameSessionForSameID(t *testing.T) {
	c := New()
	a := c.getOrCreate("conv-1")
	b := c.getOrCreate("conv-1")
	assert.Same(t, a, b)
	assert.Equal(t, 1, c.Count())
}

func TestWithSessionSerializesSameConversation(t *testing.T) {
	c := New()
	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.WithSession("conv-shared", func(s *Session) error {
				time.Sleep(time.Millisecond)
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Len(t, order, 5, "all five goroutines must run, never skipped or deadlocked")
}

func TestWithSessionDistinctConversationsDoNotBlockEachOther(t *testing.T) {
	c := New()
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = c.WithSession("conv-a", func(s *Session) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	done := make(chan struct{})
	go func() {
		_ = c.WithSession("conv-b", func(s *Session) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("conv-b was blocked by conv-a's lock")
	}
	close(release)
}

func TestWithSessionMutatesHistory(t *testing.T) {
	c := New()
	err := c.WithSession("conv-1", func(s *Session) error {
		s.History = append(s.History, models.Message{Role: models.RoleUser, Content: "hi"})
		return nil
	})
	require.NoError(t, err)

	err = c.WithSession("conv-1", func(s *Session) error {
		assert.Len(t, s.History, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteForgetsSession(t *testing.T) {
	c := New()
	c.getOrCreate("conv-1")
	require.Equal(t, 1, c.Count())
	c.Delete("conv-1")
	assert.Equal(t, 0, c.Count())
}

func TestNewConversationIDIsUnique(t *testing.T) {
	a := NewConversationID()
	b := NewConversationID()
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}
