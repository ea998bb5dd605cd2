package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ircengine/internal/app/ports"
)

func TestHistoryRecordAndRecent(t *testing.T) {
	h := NewHistory(16, time.Minute)

	h.Record(ports.DirIn, "PING :token")
	h.Record(ports.DirOut, "PONG :token")
	h.Record(ports.DirIn, ":server NOTICE * :hi")

	entries := h.Recent()
	require.Len(t, entries, 3)
	assert.Equal(t, "PING :token", entries[0].Line)
	assert.Equal(t, ports.DirIn, entries[0].Dir)
	assert.Equal(t, "PONG :token", entries[1].Line)
	assert.Equal(t, ports.DirOut, entries[1].Dir)
	assert.True(t, entries[0].Seq < entries[1].Seq)
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(4, time.Minute)

	for i := 0; i < 10; i++ {
		h.Record(ports.DirIn, fmt.Sprintf("line %d", i))
	}

	entries := h.Recent()
	require.Len(t, entries, 4)
	assert.Equal(t, "line 6", entries[0].Line)
	assert.Equal(t, "line 9", entries[3].Line)
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(4, time.Minute)
	h.Record(ports.DirIn, "line")
	h.Clear()
	assert.Empty(t, h.Recent())
}

func BenchmarkHistoryRecord(b *testing.B) {
	h := NewHistory(256, time.Minute)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Record(ports.DirIn, "PRIVMSG #channel :hello")
	}
}
