package client

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"ircengine/internal/app/adapters/metrics"
	"ircengine/internal/app/domain/irc"
	"ircengine/internal/app/domain/session"
	"ircengine/internal/app/infrastructure/config"
	"ircengine/internal/app/ports"
	"ircengine/pkg/logger"
)

// ErrRateLimited is returned by Say when the outbound limiter rejects the
// message. Handshake and keepalive writes are never limited.
var ErrRateLimited = errors.New("outbound rate limit exceeded")

type Client struct {
	log       logger.Logger
	cfg       *config.Config
	transport ports.TransportPort
	history   ports.HistoryPort
	handlers  []ports.HandlerPort
	limiter   *rate.Limiter

	isListen   sync.Once
	isRegister sync.Once

	writeMu sync.Mutex

	stateMu sync.Mutex
	status  session.Status
	motd    session.Motd
	info    session.ServerInfo
}

var _ ports.ClientPort = (*Client)(nil)

func New(log logger.Logger, manager *config.Manager, transport ports.TransportPort, history ports.HistoryPort, handlers ...ports.HandlerPort) *Client {
	cfg := manager.Get()

	c := &Client{
		log:       log,
		cfg:       cfg,
		transport: transport,
		history:   history,
		handlers:  handlers,
	}

	if cfg.Limiter.Requests > 0 {
		c.limiter = rate.NewLimiter(rate.Every(cfg.Limiter.Per/time.Duration(cfg.Limiter.Requests)), cfg.Limiter.Requests)
	}

	return c
}

// Connect announces the initial status, starts the read loop and performs
// the registration handshake. Registration is written exactly once even if
// Connect is called again.
func (c *Client) Connect() error {
	metrics.ConnectionStatus.Set(float64(session.StatusConnecting))
	c.dispatch(session.Event{Kind: session.EventStatusChange})

	c.isListen.Do(func() {
		go c.listen()
	})

	var err error
	c.isRegister.Do(func() {
		if c.cfg.App.Password != "" {
			if err = c.writeCommand(irc.Pass{Password: c.cfg.App.Password}); err != nil {
				return
			}
		}
		if err = c.writeCommand(irc.Nick{Nickname: c.cfg.App.Nickname}); err != nil {
			return
		}
		err = c.writeCommand(irc.User{Username: c.cfg.App.Username, Realname: c.cfg.App.Realname})
	})
	if err != nil {
		return fmt.Errorf("registration: %w", err)
	}

	return nil
}

func (c *Client) listen() {
	c.log.Info("Listening on IRC connection", slog.String("server", c.cfg.Server.Address))

	for {
		line, err := c.transport.ReadLine()
		if err != nil {
			c.log.Error("Failed to read line", err)
			c.disconnect()
			return
		}

		c.handleLine(line)
	}
}

// disconnect marks the session terminal and tells every handler once.
func (c *Client) disconnect() {
	c.stateMu.Lock()
	c.status = session.StatusDisconnected
	c.stateMu.Unlock()

	metrics.ConnectionStatus.Set(float64(session.StatusDisconnected))
	c.dispatch(session.Event{Kind: session.EventStatusChange})
}

func (c *Client) handleLine(line string) {
	start := time.Now()

	metrics.LinesTotal.WithLabelValues(string(ports.DirIn)).Inc()
	c.history.Record(ports.DirIn, strings.TrimRight(line, "\r\n"))

	msg, err := irc.Parse(line)
	if err != nil {
		var promoErr *irc.PromotionError
		if !errors.As(err, &promoErr) {
			metrics.ParseErrors.Inc()
			c.log.Warn("Dropping unparsable line", slog.String("line", line), slog.String("error", err.Error()))
			c.dispatch(session.Event{Kind: session.EventParseError, Err: err, Line: line})
			return
		}

		// The line is grammatical but no typed arm fits its shape; report
		// it and keep going with the generic form.
		metrics.ParseErrors.Inc()
		c.log.Debug("Command kept generic", slog.String("line", line), slog.String("error", err.Error()))
		c.dispatch(session.Event{Kind: session.EventParseError, Err: err, Line: line})
	}

	events := c.apply(&msg)
	c.dispatch(append([]session.Event{{Kind: session.EventRaw, Message: &msg}}, events...)...)

	if ping, ok := msg.Command.(irc.Ping); ok {
		if err := c.writeCommand(irc.Pong{Token: ping.Token}); err != nil {
			c.log.Error("Failed to answer PING", err)
		} else {
			metrics.PongsTotal.Inc()
		}
	}

	metrics.LineProcessingTime.Observe(time.Since(start).Seconds())
}

// apply folds one message into the session state and returns the semantic
// events it produces, in order. Registration replies must address our
// nickname to count; notices also accept the "*" placeholder used before
// registration completes.
func (c *Client) apply(msg *irc.Message) []session.Event {
	nick := c.cfg.App.Nickname

	switch cmd := msg.Command.(type) {
	case irc.Notice:
		if cmd.Target == nick || cmd.Target == "*" {
			return []session.Event{{Kind: session.EventNotice, Text: cmd.Text}}
		}

	case irc.ErrorMsg:
		return []session.Event{{Kind: session.EventError, Text: cmd.Text}}

	case irc.Welcome:
		if cmd.Client == nick {
			c.stateMu.Lock()
			c.status = session.StatusConnected
			c.stateMu.Unlock()

			metrics.ConnectionStatus.Set(float64(session.StatusConnected))
			return []session.Event{
				{Kind: session.EventStatusChange},
				{Kind: session.EventWelcome, Text: cmd.Text},
			}
		}

	case irc.YourHost:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: cmd.Text}}
		}

	case irc.Created:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: cmd.Text}}
		}

	case irc.MyInfo:
		if cmd.Client == nick {
			c.stateMu.Lock()
			c.info = session.ServerInfo{
				Name:              cmd.ServerName,
				Version:           cmd.ServerVersion,
				UserModes:         cmd.UserModes,
				ChannelModes:      cmd.ChannelModes,
				ChannelModeParams: cmd.ChannelModeParams,
			}
			c.stateMu.Unlock()
		}

	case irc.ISupport:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: fmt.Sprintf("%s %s", strings.Join(cmd.Tokens, ", "), cmd.Text)}}
		}

	case irc.LUserClient:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: cmd.Text}}
		}

	case irc.LUserOp:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: fmt.Sprintf("%d %s", cmd.Ops, cmd.Text)}}
		}

	case irc.LUserUnknown:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: fmt.Sprintf("%d %s", cmd.Connections, cmd.Text)}}
		}

	case irc.LUserChannels:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: fmt.Sprintf("%d %s", cmd.Channels, cmd.Text)}}
		}

	case irc.LUserMe:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: cmd.Text}}
		}

	case irc.LocalUsers:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: cmd.Text}}
		}

	case irc.GlobalUsers:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: cmd.Text}}
		}

	case irc.MotdStart:
		if cmd.Client == nick {
			return c.motdStep(msg, func(m *session.Motd) error { return m.Start(cmd.Text) }, nil)
		}

	case irc.MotdLine:
		if cmd.Client == nick {
			return c.motdStep(msg, func(m *session.Motd) error { return m.Append(cmd.Text) }, nil)
		}

	case irc.EndOfMotd:
		if cmd.Client == nick {
			return c.motdStep(msg, func(m *session.Motd) error { return m.Finish(cmd.Text) },
				[]session.Event{{Kind: session.EventMotd}})
		}

	case irc.HostHidden:
		if cmd.Client == nick {
			return []session.Event{{Kind: session.EventWelcome, Text: fmt.Sprintf("%s %s", cmd.Host, cmd.Text)}}
		}

	case irc.Ping:
		// Answered after dispatch; no semantic event.

	default:
		return []session.Event{{Kind: session.EventUnhandled, Message: msg}}
	}

	return nil
}

// motdStep runs one accumulator transition under the state lock. An ordering
// violation becomes a recoverable ParseError event instead of tearing the
// connection down.
func (c *Client) motdStep(msg *irc.Message, step func(*session.Motd) error, onOk []session.Event) []session.Event {
	c.stateMu.Lock()
	err := step(&c.motd)
	c.stateMu.Unlock()

	if err != nil {
		line, _ := msg.Serialize()
		c.log.Warn("Out-of-order MOTD reply", slog.String("error", err.Error()))
		return []session.Event{{Kind: session.EventParseError, Err: err, Line: line}}
	}
	return onOk
}

// dispatch snapshots the session state and delivers the events to every
// handler in registration order.
func (c *Client) dispatch(events ...session.Event) {
	c.stateMu.Lock()
	ctx := session.Context{Status: c.status, Motd: c.motd}
	c.stateMu.Unlock()

	for _, ev := range events {
		metrics.EventsTotal.WithLabelValues(ev.Kind.String()).Inc()
	}

	for _, h := range c.handlers {
		for _, ev := range events {
			h.OnEvent(ctx, ev)
		}
	}
}

func (c *Client) writeCommand(cmd irc.Command) error {
	line, err := irc.Message{Command: cmd}.Serialize()
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.transport.Write([]byte(line)); err != nil {
		return err
	}

	metrics.LinesTotal.WithLabelValues(string(ports.DirOut)).Inc()
	c.history.Record(ports.DirOut, strings.TrimRight(line, "\r\n"))
	return nil
}

func (c *Client) Say(target, text string) error {
	if c.limiter != nil && !c.limiter.Allow() {
		return ErrRateLimited
	}
	return c.writeCommand(irc.Generic{Code: irc.TextCode("PRIVMSG"), Params: []string{target}, Trailing: &text})
}

func (c *Client) Join(channel string) error {
	return c.writeCommand(irc.Generic{Code: irc.TextCode("JOIN"), Params: []string{channel}})
}

func (c *Client) Part(channel string) error {
	return c.writeCommand(irc.Generic{Code: irc.TextCode("PART"), Params: []string{channel}})
}

func (c *Client) Quit(reason string) error {
	return c.writeCommand(irc.Generic{Code: irc.TextCode("QUIT"), Trailing: &reason})
}

func (c *Client) Context() session.Context {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	return session.Context{Status: c.status, Motd: c.motd}
}

func (c *Client) ServerInfo() session.ServerInfo {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	return c.info
}

func (c *Client) Close() error {
	return c.transport.Close()
}
