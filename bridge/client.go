package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrClosed = errors.New("bridge: closed")

const writeWait = 5 * time.Second

// Message types exchanged with the timer host.
const (
	TypeTimer  = "timer"
	TypeScore  = "score"
	TypeStart  = "start"
	TypePause  = "pause"
	TypeReturn = "return"
)

// inbound is sent by the timer host.
type inbound struct {
	Type      string `json:"type"`
	Remaining int    `json:"remaining"`
	Mode      Mode   `json:"mode"`
	Running   *bool  `json:"running,omitempty"`
}

// Outbound is sent to the timer host.
type Outbound struct {
	Type  string `json:"type"`
	Score int    `json:"score"`
}

// Client connects the game to an external focus/break timer over a
// websocket. Timer updates land in the wrapped Countdown; game events go
// back as Outbound messages. A Client satisfies the session's countdown
// interface so Exit pauses the remote timer too.
type Client struct {
	conn      *websocket.Conn
	countdown *Countdown

	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// Dial opens the websocket and starts reading timer messages.
func Dial(ctx context.Context, url string, countdown *Countdown) (*Client, error) {
	if countdown == nil {
		countdown = NewCountdown(0, 0, nil)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("bridge: dial %s: %w", url, err)
	}
	c := &Client{conn: conn, countdown: countdown, done: make(chan struct{})}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer c.shutdown()
	for {
		var msg inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !c.isClosed() {
				log.Printf("bridge: read: %v", err)
			}
			return
		}
		if msg.Type != TypeTimer {
			continue
		}
		snap := Snapshot{Remaining: time.Duration(msg.Remaining) * time.Second, Mode: msg.Mode}
		if msg.Running != nil {
			snap.Running = *msg.Running
		} else {
			snap.Running = c.countdown.Running()
		}
		c.countdown.Set(snap)
	}
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return c.countdown.Snapshot()
}

func (c *Client) Running() bool {
	if c == nil {
		return false
	}
	return c.countdown.Running()
}

// Start starts the local countdown and asks the host to start its timer.
func (c *Client) Start() {
	if c == nil {
		return
	}
	c.countdown.Start()
	if err := c.Send(Outbound{Type: TypeStart}); err != nil && !errors.Is(err, ErrClosed) {
		log.Printf("bridge: send start: %v", err)
	}
}

// Pause pauses the local countdown and tells the host.
func (c *Client) Pause() {
	if c == nil {
		return
	}
	c.countdown.Pause()
	if err := c.Send(Outbound{Type: TypePause}); err != nil && !errors.Is(err, ErrClosed) {
		log.Printf("bridge: send pause: %v", err)
	}
}

func (c *Client) SendScore(score int) error {
	return c.Send(Outbound{Type: TypeScore, Score: score})
}

func (c *Client) SendReturn(score int) error {
	return c.Send(Outbound{Type: TypeReturn, Score: score})
}

// Send writes one message. It returns ErrClosed once the connection is gone.
func (c *Client) Send(msg Outbound) error {
	if c == nil || c.isClosed() {
		return ErrClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("bridge: send %s: %w", msg.Type, err)
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("bridge: send %s: %w", msg.Type, err)
	}
	return nil
}

// Close sends a close frame and releases the connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.writeMu.Lock()
	if !c.isClosed() {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
	}
	c.writeMu.Unlock()
	return c.shutdown()
}

func (c *Client) shutdown() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
		close(c.done)
	})
	return err
}

func (c *Client) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
