package transport

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"ircengine/internal/app/ports"
)

const dialTimeout = 10 * time.Second

// TCP carries the wire protocol over a plain or TLS socket.
type TCP struct {
	conn   net.Conn
	reader *bufio.Reader
}

var _ ports.TransportPort = (*TCP)(nil)

func DialTCP(address string, useTLS bool) (*TCP, error) {
	var (
		conn net.Conn
		err  error
	)

	if useTLS {
		dialer := &net.Dialer{Timeout: dialTimeout}
		conn, err = tls.DialWithDialer(dialer, "tcp", address, &tls.Config{
			MinVersion: tls.VersionTLS12,
		})
	} else {
		conn, err = net.DialTimeout("tcp", address, dialTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	return &TCP{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// ReadLine blocks until a full line arrives and returns it with its
// terminator intact.
func (t *TCP) ReadLine() (string, error) {
	return t.reader.ReadString('\n')
}

func (t *TCP) Write(p []byte) error {
	_, err := t.conn.Write(p)
	return err
}

func (t *TCP) Close() error {
	return t.conn.Close()
}
