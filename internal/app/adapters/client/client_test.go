package client

import (
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ircengine/internal/app/adapters/metrics"
	"ircengine/internal/app/domain/irc"
	"ircengine/internal/app/domain/session"
	"ircengine/internal/app/infrastructure/config"
	"ircengine/internal/app/infrastructure/storage"
	"ircengine/pkg/logger"
)

type fakeTransport struct {
	lines chan string

	mu     sync.Mutex
	writes []string
	closed bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{lines: make(chan string, 64)}
}

func (t *fakeTransport) ReadLine() (string, error) {
	line, ok := <-t.lines
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (t *fakeTransport) Write(p []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = append(t.writes, string(p))
	return nil
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *fakeTransport) written() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.writes...)
}

type recorded struct {
	ctx session.Context
	ev  session.Event
}

type recorder struct {
	mu     sync.Mutex
	events []recorded
}

func (r *recorder) OnEvent(ctx session.Context, ev session.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{ctx: ctx, ev: ev})
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.events...)
}

func (r *recorder) kinds() []session.EventKind {
	var kinds []session.EventKind
	for _, rec := range r.all() {
		kinds = append(kinds, rec.ev.Kind)
	}
	return kinds
}

func newTestClient(t *testing.T, modify func(cfg *config.Config)) (*Client, *fakeTransport, *recorder) {
	t.Helper()

	manager, err := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	require.NoError(t, manager.Update(func(cfg *config.Config) {
		cfg.App.Nickname = "gopher"
		cfg.App.Username = ""
		cfg.App.Realname = ""
		if modify != nil {
			modify(cfg)
		}
	}))

	tr := newFakeTransport()
	rec := &recorder{}
	c := New(logger.New(), manager, tr, storage.NewHistory(16, time.Minute), rec)
	return c, tr, rec
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestHandshake(t *testing.T) {
	c, tr, rec := newTestClient(t, nil)

	require.NoError(t, c.Connect())

	assert.Equal(t, []string{
		"NICK gopher\r\n",
		"USER gopher 0 * :gopher\r\n",
	}, tr.written())

	events := rec.all()
	require.NotEmpty(t, events)
	assert.Equal(t, session.EventStatusChange, events[0].ev.Kind)
	assert.Equal(t, session.StatusConnecting, events[0].ctx.Status)
}

func TestHandshakeFromFreshConfig(t *testing.T) {
	manager, err := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	tr := newFakeTransport()
	c := New(logger.New(), manager, tr, storage.NewHistory(16, time.Minute), &recorder{})

	require.NoError(t, c.Connect())

	nick := manager.Get().App.Nickname
	assert.Equal(t, []string{
		"NICK " + nick + "\r\n",
		"USER " + nick + " 0 * :" + nick + "\r\n",
	}, tr.written())
}

func TestHandshakeWithPassword(t *testing.T) {
	c, tr, _ := newTestClient(t, func(cfg *config.Config) {
		cfg.App.Password = "hunter2"
	})

	require.NoError(t, c.Connect())

	assert.Equal(t, []string{
		"PASS hunter2\r\n",
		"NICK gopher\r\n",
		"USER gopher 0 * :gopher\r\n",
	}, tr.written())
}

func TestKeepalive(t *testing.T) {
	c, tr, rec := newTestClient(t, nil)

	c.handleLine("PING :1234567890\r\n")

	assert.Equal(t, []string{"PONG :1234567890\r\n"}, tr.written())
	assert.Equal(t, []session.EventKind{session.EventRaw}, rec.kinds())
}

func TestWelcomeTransition(t *testing.T) {
	c, _, rec := newTestClient(t, nil)

	c.handleLine(":copper.libera.chat 001 gopher :Welcome to the network gopher\r\n")

	assert.Equal(t, []session.EventKind{
		session.EventRaw,
		session.EventStatusChange,
		session.EventWelcome,
	}, rec.kinds())

	events := rec.all()
	assert.Equal(t, session.StatusConnected, events[1].ctx.Status)
	assert.Equal(t, "Welcome to the network gopher", events[2].ev.Text)
	assert.Equal(t, session.StatusConnected, c.Context().Status)
}

func TestWelcomeForOtherNickIgnored(t *testing.T) {
	c, _, rec := newTestClient(t, nil)

	c.handleLine(":copper.libera.chat 001 ferret :Welcome to the network ferret\r\n")

	assert.Equal(t, []session.EventKind{session.EventRaw}, rec.kinds())
	assert.Equal(t, session.StatusConnecting, c.Context().Status)
}

func TestNoticeTargetMatching(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		notice bool
	}{
		{"own nick", ":server NOTICE gopher :Hello\r\n", true},
		{"star placeholder", ":server NOTICE * :Looking up your hostname\r\n", true},
		{"someone else", ":server NOTICE ferret :Hello\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, rec := newTestClient(t, nil)

			c.handleLine(tt.line)

			want := []session.EventKind{session.EventRaw}
			if tt.notice {
				want = append(want, session.EventNotice)
			}
			assert.Equal(t, want, rec.kinds())
		})
	}
}

func TestServerInfoFromMyInfo(t *testing.T) {
	c, _, rec := newTestClient(t, nil)

	c.handleLine(":server 004 gopher copper.libera.chat solanum-1.0 iow bkov bk\r\n")

	info := c.ServerInfo()
	assert.Equal(t, "copper.libera.chat", info.Name)
	assert.Equal(t, "solanum-1.0", info.Version)
	assert.Equal(t, "iow", info.UserModes)
	assert.Equal(t, "bkov", info.ChannelModes)
	require.NotNil(t, info.ChannelModeParams)
	assert.Equal(t, "bk", *info.ChannelModeParams)

	// 004 populates state silently.
	assert.Equal(t, []session.EventKind{session.EventRaw}, rec.kinds())
}

func TestMotdAccumulation(t *testing.T) {
	c, _, rec := newTestClient(t, nil)

	c.handleLine(":server 375 gopher :Welcome\r\n")
	c.handleLine(":server 372 gopher :line2\r\n")
	c.handleLine(":server 376 gopher :bye\r\n")

	assert.Equal(t, []session.EventKind{
		session.EventRaw,
		session.EventRaw,
		session.EventRaw,
		session.EventMotd,
	}, rec.kinds())

	ctx := c.Context()
	assert.Equal(t, session.MotdDone, ctx.Motd.Phase)
	assert.Equal(t, "Welcome\nline2\nbye", ctx.Motd.Text)
}

func TestMotdOrderViolation(t *testing.T) {
	c, _, rec := newTestClient(t, nil)

	c.handleLine(":server 372 gopher :line before start\r\n")

	kinds := rec.kinds()
	require.Equal(t, []session.EventKind{session.EventRaw, session.EventParseError}, kinds)

	events := rec.all()
	assert.ErrorIs(t, events[1].ev.Err, session.ErrMotdOrder)
	assert.Equal(t, session.MotdEmpty, c.Context().Motd.Phase)
	assert.Empty(t, c.Context().Motd.Text)
}

func TestParseFailureContinues(t *testing.T) {
	c, _, rec := newTestClient(t, nil)

	c.handleLine("no crlf terminator")
	c.handleLine("PING :still-alive\r\n")

	kinds := rec.kinds()
	require.Equal(t, []session.EventKind{session.EventParseError, session.EventRaw}, kinds)

	events := rec.all()
	assert.ErrorIs(t, events[0].ev.Err, irc.ErrNoMatch)
	assert.Equal(t, "no crlf terminator", events[0].ev.Line)
}

func TestPromotionFailureKeepsGeneric(t *testing.T) {
	c, _, rec := newTestClient(t, nil)

	// 001 with no parameters is grammatical but has no typed shape.
	c.handleLine(":server 001\r\n")

	kinds := rec.kinds()
	require.Equal(t, []session.EventKind{session.EventParseError, session.EventRaw, session.EventUnhandled}, kinds)

	events := rec.all()
	require.NotNil(t, events[1].ev.Message)
	_, ok := events[1].ev.Message.Command.(irc.Generic)
	assert.True(t, ok)
	assert.Equal(t, session.StatusConnecting, c.Context().Status)
}

func TestUnknownCommandUnhandled(t *testing.T) {
	c, _, rec := newTestClient(t, nil)

	c.handleLine(":nick!user@host PRIVMSG #go-nuts :hello\r\n")

	assert.Equal(t, []session.EventKind{session.EventRaw, session.EventUnhandled}, rec.kinds())
}

func TestDisconnectOnReadError(t *testing.T) {
	c, tr, rec := newTestClient(t, nil)

	require.NoError(t, c.Connect())

	tr.lines <- ":copper.libera.chat 001 gopher :Welcome\r\n"
	close(tr.lines)

	waitFor(t, func() bool {
		events := rec.all()
		if len(events) == 0 {
			return false
		}
		last := events[len(events)-1]
		return last.ev.Kind == session.EventStatusChange && last.ctx.Status == session.StatusDisconnected
	})

	assert.Equal(t, session.StatusDisconnected, c.Context().Status)
}

func TestLineProcessingObservedInSeconds(t *testing.T) {
	c, _, _ := newTestClient(t, nil)

	before := lineProcessingSnapshot(t)
	c.handleLine("PING :tick\r\n")
	after := lineProcessingSnapshot(t)

	require.Equal(t, before.GetSampleCount()+1, after.GetSampleCount())

	// A sub-second observation must fall inside the bucket range instead
	// of overflowing past the largest bound.
	buckets := after.GetBucket()
	require.NotEmpty(t, buckets)
	assert.Equal(t, after.GetSampleCount(), buckets[len(buckets)-1].GetCumulativeCount())
}

func lineProcessingSnapshot(t *testing.T) *dto.Histogram {
	t.Helper()

	var m dto.Metric
	require.NoError(t, metrics.LineProcessingTime.Write(&m))
	return m.GetHistogram()
}

func TestSayRateLimited(t *testing.T) {
	c, tr, _ := newTestClient(t, func(cfg *config.Config) {
		cfg.Limiter.Requests = 1
		cfg.Limiter.Per = time.Hour
	})

	require.NoError(t, c.Say("#go-nuts", "hello"))
	assert.ErrorIs(t, c.Say("#go-nuts", "hello again"), ErrRateLimited)

	assert.Equal(t, []string{"PRIVMSG #go-nuts :hello\r\n"}, tr.written())
}

func TestOutboundHelpers(t *testing.T) {
	c, tr, _ := newTestClient(t, nil)

	require.NoError(t, c.Join("#go-nuts"))
	require.NoError(t, c.Part("#go-nuts"))
	require.NoError(t, c.Quit("bye"))

	assert.Equal(t, []string{
		"JOIN #go-nuts\r\n",
		"PART #go-nuts\r\n",
		"QUIT :bye\r\n",
	}, tr.written())
}
