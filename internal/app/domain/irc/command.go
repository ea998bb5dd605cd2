package irc

import (
	"fmt"
	"strconv"
)

// Numeric reply codes recognized by the taxonomy.
const (
	RplWelcome      uint16 = 1
	RplYourHost     uint16 = 2
	RplCreated      uint16 = 3
	RplMyInfo       uint16 = 4
	RplISupport     uint16 = 5
	RplLUserClient  uint16 = 251
	RplLUserOp      uint16 = 252
	RplLUserUnknown uint16 = 253
	RplLUserChannels uint16 = 254
	RplLUserMe      uint16 = 255
	RplLocalUsers   uint16 = 265
	RplGlobalUsers  uint16 = 266
	RplMotd         uint16 = 372
	RplMotdStart    uint16 = 375
	RplEndOfMotd    uint16 = 376
	RplHostHidden   uint16 = 396
)

// Command is the closed set of protocol commands. Every implementation lives
// in this package; Generic is the escape arm for anything the taxonomy does
// not recognize.
type Command interface {
	// generic returns the wire shape of the command.
	generic() Generic
}

// Generic is the fallback representation of a command: its code, the middle
// parameters, and the optional trailing parameter. Trailing is nil when the
// wire line had no trailing segment; a non-nil empty string is a bare " :".
type Generic struct {
	Code     Code
	Params   []string
	Trailing *string
}

func (g Generic) generic() Generic { return g }

// Demote converts any typed command to its canonical Generic wire shape.
// No information present in the typed arm is dropped.
func Demote(c Command) Generic {
	return c.generic()
}

type Pass struct{ Password string }

type Nick struct{ Nickname string }

type User struct{ Username, Realname string }

type Ping struct{ Token string }

type Pong struct{ Token string }

type Notice struct{ Target, Text string }

type ErrorMsg struct{ Text string }

type Welcome struct{ Client, Text string }

type YourHost struct{ Client, Text string }

type Created struct{ Client, Text string }

// MyInfo is the 004 reply. ChannelModeParams is nil when the server omitted
// the sixth parameter; demotion never synthesizes an empty one.
type MyInfo struct {
	Client            string
	ServerName        string
	ServerVersion     string
	UserModes         string
	ChannelModes      string
	ChannelModeParams *string
}

type ISupport struct {
	Client string
	Tokens []string
	Text   string
}

type LUserClient struct{ Client, Text string }

type LUserOp struct {
	Client string
	Ops    int
	Text   string
}

type LUserUnknown struct {
	Client      string
	Connections int
	Text        string
}

type LUserChannels struct {
	Client   string
	Channels int
	Text     string
}

type LUserMe struct{ Client, Text string }

// UserCount is the optional current/max pair on LocalUsers and GlobalUsers.
type UserCount struct{ Current, Max int }

type LocalUsers struct {
	Client string
	Users  *UserCount
	Text   string
}

type GlobalUsers struct {
	Client string
	Users  *UserCount
	Text   string
}

type MotdStart struct{ Client, Text string }

type MotdLine struct{ Client, Text string }

type EndOfMotd struct{ Client, Text string }

type HostHidden struct{ Client, Host, Text string }

func (c Pass) generic() Generic {
	return Generic{Code: TextCode("PASS"), Params: []string{c.Password}}
}

func (c Nick) generic() Generic {
	return Generic{Code: TextCode("NICK"), Params: []string{c.Nickname}}
}

func (c User) generic() Generic {
	return Generic{Code: TextCode("USER"), Params: []string{c.Username, "0", "*"}, Trailing: &c.Realname}
}

func (c Ping) generic() Generic {
	return Generic{Code: TextCode("PING"), Trailing: &c.Token}
}

func (c Pong) generic() Generic {
	return Generic{Code: TextCode("PONG"), Trailing: &c.Token}
}

func (c Notice) generic() Generic {
	return Generic{Code: TextCode("NOTICE"), Params: []string{c.Target}, Trailing: &c.Text}
}

func (c ErrorMsg) generic() Generic {
	return Generic{Code: TextCode("ERROR"), Trailing: &c.Text}
}

func (c Welcome) generic() Generic {
	return numericText(RplWelcome, c.Client, c.Text)
}

func (c YourHost) generic() Generic {
	return numericText(RplYourHost, c.Client, c.Text)
}

func (c Created) generic() Generic {
	return numericText(RplCreated, c.Client, c.Text)
}

func (c MyInfo) generic() Generic {
	params := []string{c.Client, c.ServerName, c.ServerVersion, c.UserModes, c.ChannelModes}
	if c.ChannelModeParams != nil {
		params = append(params, *c.ChannelModeParams)
	}
	return Generic{Code: NumericCode(RplMyInfo), Params: params}
}

func (c ISupport) generic() Generic {
	params := append([]string{c.Client}, c.Tokens...)
	return Generic{Code: NumericCode(RplISupport), Params: params, Trailing: &c.Text}
}

func (c LUserClient) generic() Generic {
	return numericText(RplLUserClient, c.Client, c.Text)
}

func (c LUserOp) generic() Generic {
	return Generic{Code: NumericCode(RplLUserOp), Params: []string{c.Client, strconv.Itoa(c.Ops)}, Trailing: &c.Text}
}

func (c LUserUnknown) generic() Generic {
	return Generic{Code: NumericCode(RplLUserUnknown), Params: []string{c.Client, strconv.Itoa(c.Connections)}, Trailing: &c.Text}
}

func (c LUserChannels) generic() Generic {
	return Generic{Code: NumericCode(RplLUserChannels), Params: []string{c.Client, strconv.Itoa(c.Channels)}, Trailing: &c.Text}
}

func (c LUserMe) generic() Generic {
	return numericText(RplLUserMe, c.Client, c.Text)
}

func (c LocalUsers) generic() Generic {
	return userCountGeneric(RplLocalUsers, c.Client, c.Users, c.Text)
}

func (c GlobalUsers) generic() Generic {
	return userCountGeneric(RplGlobalUsers, c.Client, c.Users, c.Text)
}

func (c MotdStart) generic() Generic {
	return numericText(RplMotdStart, c.Client, c.Text)
}

func (c MotdLine) generic() Generic {
	return numericText(RplMotd, c.Client, c.Text)
}

func (c EndOfMotd) generic() Generic {
	return numericText(RplEndOfMotd, c.Client, c.Text)
}

func (c HostHidden) generic() Generic {
	return Generic{Code: NumericCode(RplHostHidden), Params: []string{c.Client, c.Host}, Trailing: &c.Text}
}

func numericText(code uint16, client, text string) Generic {
	return Generic{Code: NumericCode(code), Params: []string{client}, Trailing: &text}
}

func userCountGeneric(code uint16, client string, users *UserCount, text string) Generic {
	params := []string{client}
	if users != nil {
		params = append(params, strconv.Itoa(users.Current), strconv.Itoa(users.Max))
	}
	return Generic{Code: NumericCode(code), Params: params, Trailing: &text}
}

// Promote maps a Generic command to its typed arm. Codes outside the lookup
// table pass through unchanged; that is the extensibility mechanism, not an
// error. A known code with the wrong shape returns a *PromotionError.
func Promote(g Generic) (Command, error) {
	// Free-text fields are read from the merged argument list, so both the
	// trailing and the middle-parameter spelling of a reply promote.
	args := make([]string, 0, len(g.Params)+1)
	args = append(args, g.Params...)
	if g.Trailing != nil {
		args = append(args, *g.Trailing)
	}
	n := len(args)

	fail := func(format string, a ...any) (Command, error) {
		return nil, &PromotionError{Code: g.Code, Reason: fmt.Sprintf(format, a...)}
	}

	if !g.Code.IsNumeric() {
		switch g.Code.Verb() {
		case "PASS":
			if n != 1 {
				return fail("want 1 argument, got %d", n)
			}
			return Pass{Password: args[0]}, nil
		case "NICK":
			if n != 1 {
				return fail("want 1 argument, got %d", n)
			}
			return Nick{Nickname: args[0]}, nil
		case "USER":
			// Accept both the short form and the full wire form
			// "USER <username> 0 * :<realname>".
			switch n {
			case 2:
				return User{Username: args[0], Realname: args[1]}, nil
			case 4:
				return User{Username: args[0], Realname: args[3]}, nil
			default:
				return fail("want 2 or 4 arguments, got %d", n)
			}
		case "PING":
			if n != 1 {
				return fail("want 1 argument, got %d", n)
			}
			return Ping{Token: args[0]}, nil
		case "PONG":
			if n != 1 {
				return fail("want 1 argument, got %d", n)
			}
			return Pong{Token: args[0]}, nil
		case "NOTICE":
			if n != 2 {
				return fail("want 2 arguments, got %d", n)
			}
			return Notice{Target: args[0], Text: args[1]}, nil
		case "ERROR":
			if n != 1 {
				return fail("want 1 argument, got %d", n)
			}
			return ErrorMsg{Text: args[0]}, nil
		}
		return g, nil
	}

	switch g.Code.Num() {
	case RplWelcome:
		if n != 2 {
			return fail("want 2 arguments, got %d", n)
		}
		return Welcome{Client: args[0], Text: args[1]}, nil
	case RplYourHost:
		if n != 2 {
			return fail("want 2 arguments, got %d", n)
		}
		return YourHost{Client: args[0], Text: args[1]}, nil
	case RplCreated:
		if n != 2 {
			return fail("want 2 arguments, got %d", n)
		}
		return Created{Client: args[0], Text: args[1]}, nil
	case RplMyInfo:
		switch n {
		case 5:
			return MyInfo{Client: args[0], ServerName: args[1], ServerVersion: args[2], UserModes: args[3], ChannelModes: args[4]}, nil
		case 6:
			return MyInfo{Client: args[0], ServerName: args[1], ServerVersion: args[2], UserModes: args[3], ChannelModes: args[4], ChannelModeParams: &args[5]}, nil
		default:
			return fail("want 5 or 6 arguments, got %d", n)
		}
	case RplISupport:
		if n < 2 {
			return fail("want at least 2 arguments, got %d", n)
		}
		sup := ISupport{Client: args[0], Text: args[n-1]}
		if n > 2 {
			sup.Tokens = args[1 : n-1]
		}
		return sup, nil
	case RplLUserClient:
		if n != 2 {
			return fail("want 2 arguments, got %d", n)
		}
		return LUserClient{Client: args[0], Text: args[1]}, nil
	case RplLUserOp:
		count, err := middleCount(args, n)
		if err != nil {
			return fail("%v", err)
		}
		return LUserOp{Client: args[0], Ops: count, Text: args[2]}, nil
	case RplLUserUnknown:
		count, err := middleCount(args, n)
		if err != nil {
			return fail("%v", err)
		}
		return LUserUnknown{Client: args[0], Connections: count, Text: args[2]}, nil
	case RplLUserChannels:
		count, err := middleCount(args, n)
		if err != nil {
			return fail("%v", err)
		}
		return LUserChannels{Client: args[0], Channels: count, Text: args[2]}, nil
	case RplLUserMe:
		if n != 2 {
			return fail("want 2 arguments, got %d", n)
		}
		return LUserMe{Client: args[0], Text: args[1]}, nil
	case RplLocalUsers:
		users, text, err := userCountArgs(g)
		if err != nil {
			return nil, err
		}
		return LocalUsers{Client: g.Params[0], Users: users, Text: text}, nil
	case RplGlobalUsers:
		users, text, err := userCountArgs(g)
		if err != nil {
			return nil, err
		}
		return GlobalUsers{Client: g.Params[0], Users: users, Text: text}, nil
	case RplMotd:
		if n != 2 {
			return fail("want 2 arguments, got %d", n)
		}
		return MotdLine{Client: args[0], Text: args[1]}, nil
	case RplMotdStart:
		if n != 2 {
			return fail("want 2 arguments, got %d", n)
		}
		return MotdStart{Client: args[0], Text: args[1]}, nil
	case RplEndOfMotd:
		if n != 2 {
			return fail("want 2 arguments, got %d", n)
		}
		return EndOfMotd{Client: args[0], Text: args[1]}, nil
	case RplHostHidden:
		if n != 3 {
			return fail("want 3 arguments, got %d", n)
		}
		return HostHidden{Client: args[0], Host: args[1], Text: args[2]}, nil
	}
	return g, nil
}

func middleCount(args []string, n int) (int, error) {
	if n != 3 {
		return 0, fmt.Errorf("want 3 arguments, got %d", n)
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("count %q is not a number", args[1])
	}
	return count, nil
}

// userCountArgs decodes the LOCAL/GLOBAL USERS shape: the middle parameters
// are either just the client or the client plus a current/max pair, and the
// text always rides in the trailing position.
func userCountArgs(g Generic) (*UserCount, string, error) {
	perr := func(format string, a ...any) (*UserCount, string, error) {
		return nil, "", &PromotionError{Code: g.Code, Reason: fmt.Sprintf(format, a...)}
	}
	if g.Trailing == nil {
		return perr("missing trailing text")
	}
	switch len(g.Params) {
	case 1:
		return nil, *g.Trailing, nil
	case 3:
		current, err := strconv.Atoi(g.Params[1])
		if err != nil {
			return perr("current count %q is not a number", g.Params[1])
		}
		max, err := strconv.Atoi(g.Params[2])
		if err != nil {
			return perr("max count %q is not a number", g.Params[2])
		}
		return &UserCount{Current: current, Max: max}, *g.Trailing, nil
	default:
		return perr("want 1 or 3 middle parameters, got %d", len(g.Params))
	}
}
