package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/reeltalk/reeltalk/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateYieldsUniqueIDs(t *testing.T) {
	store := NewStore()

	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 100; i++ {
		sess := store.Create()
		assert.False(t, seen[sess.ID], "duplicate session id %s", sess.ID)
		seen[sess.ID] = true
		assert.False(t, sess.CreatedAt.IsZero())
	}
	assert.Equal(t, 100, store.Len())
}

func TestGetUnknownSession(t *testing.T) {
	store := NewStore()

	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Append(uuid.New(), llm.RoleUser, "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Recent(uuid.New(), 10)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.History(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendPreservesOrder(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	// Five user/assistant exchanges, ten turns total.
	for i := 0; i < 5; i++ {
		_, err := store.Append(sess.ID, llm.RoleUser, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
		_, err = store.Append(sess.ID, llm.RoleAssistant, fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
	}

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Turns, 10)
	for i, turn := range got.Turns {
		if i%2 == 0 {
			assert.Equal(t, llm.RoleUser, turn.Role)
		} else {
			assert.Equal(t, llm.RoleAssistant, turn.Role)
		}
	}
}

func TestRecentReturnsTail(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	for i := 0; i < 5; i++ {
		_, err := store.Append(sess.ID, llm.RoleUser, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
		_, err = store.Append(sess.ID, llm.RoleAssistant, fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
	}

	recent, err := store.Recent(sess.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "question 4", recent[0].Content)
	assert.Equal(t, "answer 4", recent[1].Content)

	// Limit larger than stored turns returns everything.
	all, err := store.Recent(sess.ID, 100)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestHistoryStripsMetadata(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	_, err := store.Append(sess.ID, llm.RoleUser, "What are the top rated movies?")
	require.NoError(t, err)
	_, err = store.Append(sess.ID, llm.RoleAssistant, "Here are some top rated movies...")
	require.NoError(t, err)

	history, err := store.History(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleUser, Content: "What are the top rated movies?"},
		{Role: llm.RoleAssistant, Content: "Here are some top rated movies..."},
	}, history)
}

func TestConcurrentAppend(t *testing.T) {
	store := NewStore()
	sess := store.Create()

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := store.Append(sess.ID, llm.RoleUser, fmt.Sprintf("w%d-%d", w, i))
				assert.NoError(t, err)
				_, err = store.History(sess.ID)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Turns, writers*perWriter)
}
