package bot

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/feudal/teatru-bot/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	chatIDs []int64
	failOn  map[int]error // 0-based send index -> error
}

func (s *fakeSender) Send(chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := len(s.sent)
	s.sent = append(s.sent, text)
	s.chatIDs = append(s.chatIDs, chatID)
	if err, ok := s.failOn[idx]; ok {
		return err
	}
	return nil
}

func TestUnit_Deliver_EntriesInOrder(t *testing.T) {
	sender := &fakeSender{}
	result := internal.EntriesResult([]internal.FormattedEntry{
		"5 martie 2025, 09:00\nhttps://www.fest.md/ru/events/performances/a",
		"5 martie 2025, 19:00\nhttps://www.fest.md/ru/events/performances/b",
		"6 martie 2025, 18:00\nhttps://www.fest.md/ru/events/performances/c",
	})

	Deliver(42, result, sender, 0)

	require.Len(t, sender.sent, 3)
	for i, entry := range result.Entries {
		assert.Equal(t, string(entry), sender.sent[i], "message %d out of order", i)
		assert.Equal(t, int64(42), sender.chatIDs[i])
	}
}

func TestUnit_Deliver_SentinelAsSingleMessage(t *testing.T) {
	for _, result := range []internal.Result{internal.EmptyResult(), internal.ErrorResult()} {
		sender := &fakeSender{}
		Deliver(7, result, sender, 0)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, result.Message, sender.sent[0])
	}
}

func TestUnit_Deliver_ContinuesPastFailedSend(t *testing.T) {
	sender := &fakeSender{failOn: map[int]error{1: errors.New("429 too many requests")}}
	result := internal.EntriesResult([]internal.FormattedEntry{"a", "b", "c"})

	Deliver(1, result, sender, 0)

	assert.Equal(t, []string{"a", "b", "c"}, sender.sent,
		"a failed send must not abort the remaining sends")
}

func TestUnit_Deliver_EnforcesDelayBetweenSends(t *testing.T) {
	sender := &fakeSender{}
	result := internal.EntriesResult([]internal.FormattedEntry{"a", "b", "c"})
	delay := 10 * time.Millisecond

	start := time.Now()
	Deliver(1, result, sender, delay)
	elapsed := time.Since(start)

	require.Len(t, sender.sent, 3)
	assert.GreaterOrEqual(t, elapsed, 3*delay, "delay is enforced before every send")
}
