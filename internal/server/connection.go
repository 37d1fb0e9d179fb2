package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"pokerroom/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10
)

// connection wraps one WebSocket client. Writes are serialized through a
// single mutex; the read loop lives in the server.
type connection struct {
	ws     *websocket.Conn
	logger *log.Logger

	writeMu sync.Mutex
	closed  bool
}

func newConnection(ws *websocket.Conn, logger *log.Logger) *connection {
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &connection{ws: ws, logger: logger}
}

// send marshals and writes one message.
func (c *connection) send(msg *protocol.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

// sendError replies with a typed error frame.
func (c *connection) sendError(requestID string, err error) {
	data := protocol.ErrorData{
		Code:    protocol.ErrorCode(err),
		Message: err.Error(),
	}
	msg, merr := protocol.NewMessage(protocol.TypeError, data)
	if merr != nil {
		c.logger.Error("building error frame", "error", merr)
		return
	}
	msg.RequestID = requestID
	if serr := c.send(msg); serr != nil {
		c.logger.Debug("writing error frame", "error", serr)
	}
}

// ping keeps the connection alive until stop closes.
func (c *connection) ping(stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.ws.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

// close shuts the socket down once.
func (c *connection) close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}
