package transport

import (
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"ircengine/internal/app/ports"
)

// WebSocket carries the wire protocol over a websocket connection.
// Servers may pack several lines into one frame; ReadLine hands them
// out one at a time.
type WebSocket struct {
	ws      *websocket.Conn
	pending []string
}

var _ ports.TransportPort = (*WebSocket)(nil)

func DialWebSocket(url string) (*WebSocket, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	return &WebSocket{ws: ws}, nil
}

func (w *WebSocket) ReadLine() (string, error) {
	for len(w.pending) == 0 {
		_, data, err := w.ws.ReadMessage()
		if err != nil {
			return "", err
		}
		w.pending = splitLines(string(data))
	}

	line := w.pending[0]
	w.pending = w.pending[1:]
	return line, nil
}

func (w *WebSocket) Write(p []byte) error {
	return w.ws.WriteMessage(websocket.TextMessage, p)
}

func (w *WebSocket) Close() error {
	return w.ws.Close()
}

// splitLines breaks a frame into wire lines, each ending in CRLF even
// when the frame omits the final terminator.
func splitLines(frame string) []string {
	var lines []string
	for _, line := range strings.Split(frame, "\r\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line+"\r\n")
	}
	return lines
}
