package msglog

import (
	"fmt"
	"testing"

	cm "github.com/mosaicnetworks/peerchat/src/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInmemStoreAppend(t *testing.T) {
	store := NewInmemStore()

	t.Run("Unknown origin is empty", func(t *testing.T) {
		assert.Equal(t, 0, store.Count("alice"))
		assert.Empty(t, store.KnownOrigins())
	})

	t.Run("Append in order", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			err := store.Append(NewMessage("alice", i, fmt.Sprintf("msg %d", i)))
			require.NoError(t, err)
		}
		assert.Equal(t, 5, store.Count("alice"))
		assert.Equal(t, 5, store.Len())
	})

	t.Run("Already known is TooLate", func(t *testing.T) {
		err := store.Append(NewMessage("alice", 2, "dup"))
		assert.True(t, cm.IsStore(err, cm.TooLate), "expected TooLate, got %v", err)
		assert.Equal(t, 5, store.Count("alice"))

		msg, err := store.At("alice", 2)
		require.NoError(t, err)
		assert.Equal(t, "msg 2", msg.Text)
	})

	t.Run("Premature is SkippedIndex", func(t *testing.T) {
		err := store.Append(NewMessage("alice", 7, "early"))
		assert.True(t, cm.IsStore(err, cm.SkippedIndex), "expected SkippedIndex, got %v", err)
		assert.Equal(t, 5, store.Count("alice"))
	})

	t.Run("First message of a new origin creates its log", func(t *testing.T) {
		err := store.Append(NewMessage("bob", 1, "early"))
		assert.True(t, cm.IsStore(err, cm.SkippedIndex))
		assert.Equal(t, []string{"alice"}, store.KnownOrigins())

		require.NoError(t, store.Append(NewMessage("bob", 0, "hi")))
		assert.Equal(t, []string{"alice", "bob"}, store.KnownOrigins())
	})
}

func TestInmemStoreContiguity(t *testing.T) {
	store := NewInmemStore()

	//deliver 0..9 in a scrambled order, retrying the refused ones
	pending := []int{3, 0, 9, 1, 2, 5, 4, 8, 7, 6, 0, 3}
	for len(pending) > 0 {
		var retry []int
		for _, seq := range pending {
			err := store.Append(NewMessage("carol", seq, ""))
			if cm.IsStore(err, cm.SkippedIndex) {
				retry = append(retry, seq)
			}
		}
		pending = retry
	}

	require.Equal(t, 10, store.Count("carol"))
	for i := 0; i < 10; i++ {
		msg, err := store.At("carol", i)
		require.NoError(t, err)
		assert.Equal(t, i, msg.SeqNum)
	}

	_, err := store.At("carol", 10)
	assert.True(t, cm.IsStore(err, cm.PassedIndex))
	_, err = store.At("carol", -1)
	assert.True(t, cm.IsStore(err, cm.PassedIndex))
	_, err = store.At("dave", 0)
	assert.True(t, cm.IsStore(err, cm.KeyNotFound))
}

func TestInmemStoreStatus(t *testing.T) {
	store := NewInmemStore()
	store.AddOrigin("zed")
	require.NoError(t, store.Append(NewMessage("amy", 0, "a")))
	require.NoError(t, store.Append(NewMessage("amy", 1, "b")))
	store.AddOrigin("amy")

	status := store.Status()
	assert.Equal(t, StatusVector{"amy": 2, "zed": 0}, status)
	assert.Equal(t, []string{"amy", "zed"}, status.Origins())
	assert.Equal(t, []string{"amy", "zed"}, store.KnownOrigins())

	//the snapshot does not follow later appends
	require.NoError(t, store.Append(NewMessage("zed", 0, "z")))
	assert.Equal(t, 0, status["zed"])

	assert.True(t, status.Acknowledges("amy", 1))
	assert.False(t, status.Acknowledges("amy", 2))
	assert.False(t, status.Acknowledges("bob", 0))
}

func TestInmemStoreMessages(t *testing.T) {
	store := NewInmemStore()
	assert.Empty(t, store.Messages("alice"))

	require.NoError(t, store.Append(NewMessage("alice", 0, "a")))
	require.NoError(t, store.Append(NewMessage("alice", 1, "b")))

	log := store.Messages("alice")
	assert.Equal(t, []*Message{NewMessage("alice", 0, "a"), NewMessage("alice", 1, "b")}, log)

	//the result is a copy of the log
	log[0] = nil
	msg, err := store.At("alice", 0)
	require.NoError(t, err)
	assert.Equal(t, "a", msg.Text)
}
