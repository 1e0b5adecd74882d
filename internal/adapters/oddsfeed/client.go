package oddsfeed

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rgalloway/gridiron/internal/store"
	"github.com/rgalloway/gridiron/internal/telemetry"
)

// LineWriter is the store surface the feed needs.
type LineWriter interface {
	InsertLine(ctx context.Context, l store.Line) error
}

// Client connects to the odds feed and persists incoming lines.
//
// Gorilla/websocket supports one concurrent reader and one concurrent
// writer, so all writes are serialized through mu.
type Client struct {
	url    string
	writer LineWriter
	done   chan struct{}

	mu    sync.Mutex
	conn  *websocket.Conn
	games map[string]bool
	subID int
}

func NewClient(wsURL string, writer LineWriter) *Client {
	return &Client{
		url:    wsURL,
		writer: writer,
		done:   make(chan struct{}),
		games:  make(map[string]bool),
	}
}

func (c *Client) Connect(ctx context.Context) error {
	if err := c.dial(ctx); err != nil {
		return err
	}
	go c.runLoop(ctx)
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// SubscribeGames adds game ids and subscribes on the live connection.
// Safe to call from any goroutine; ids noted before connect are
// subscribed once the connection is up.
func (c *Client) SubscribeGames(gameIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var fresh []string
	for _, id := range gameIDs {
		if !c.games[id] {
			c.games[id] = true
			fresh = append(fresh, id)
		}
	}

	if len(fresh) == 0 || c.conn == nil {
		return nil
	}
	return c.sendSubscribe(fresh)
}

// runLoop reads messages and reconnects on failure with exponential
// backoff.
func (c *Client) runLoop(ctx context.Context) {
	defer close(c.done)

	first := true
	for {
		if first {
			telemetry.Infof("oddsfeed: connected to %s", c.url)
			first = false
		} else {
			telemetry.Infof("oddsfeed: reconnected")
		}

		c.resubscribeAll()
		telemetry.Metrics.ActiveFeeds.Set(1)
		c.readLoop(ctx)
		telemetry.Metrics.ActiveFeeds.Set(0)

		select {
		case <-ctx.Done():
			return
		default:
		}

		backoff := 1 * time.Second
		const maxBackoff = 30 * time.Second
		for attempt := 1; ; attempt++ {
			telemetry.Warnf("oddsfeed: reconnecting (attempt %d) in %s", attempt, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if err := c.dial(ctx); err != nil {
				telemetry.Warnf("oddsfeed: dial failed: %v", err)
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				continue
			}
			break
		}
	}
}

func (c *Client) resubscribeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.games) == 0 {
		return
	}
	all := make([]string, 0, len(c.games))
	for id := range c.games {
		all = append(all, id)
	}
	if err := c.sendSubscribe(all); err != nil {
		telemetry.Warnf("oddsfeed: resubscribe failed: %v", err)
	}
}

// sendSubscribe writes a subscribe command. Caller must hold mu.
func (c *Client) sendSubscribe(gameIDs []string) error {
	c.subID++
	cmd := subscribeCmd{
		ID:  c.subID,
		Cmd: "subscribe",
		Params: subscribeParams{
			Channels: []string{"lines"},
			GameIDs:  gameIDs,
		},
	}
	telemetry.Debugf("oddsfeed: subscribing to %d games (sid=%d)", len(gameIDs), c.subID)
	return c.conn.WriteJSON(cmd)
}

type subscribeCmd struct {
	ID     int             `json:"id"`
	Cmd    string          `json:"cmd"`
	Params subscribeParams `json:"params"`
}

type subscribeParams struct {
	Channels []string `json:"channels"`
	GameIDs  []string `json:"game_ids,omitempty"`
}

func (c *Client) readLoop(ctx context.Context) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	defer conn.Close()

	// The feed pings every 10s; 30s allows 3 missed pings.
	const pingWait = 30 * time.Second

	conn.SetReadDeadline(time.Now().Add(pingWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pingWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			telemetry.Warnf("oddsfeed: read error: %v", err)
			return
		}

		conn.SetReadDeadline(time.Now().Add(pingWait))
		for _, line := range ParseMessage(msg) {
			if err := c.writer.InsertLine(ctx, line); err != nil {
				telemetry.Errorf("oddsfeed: store line for %s: %v", line.GameID, err)
			}
		}
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Client) Done() <-chan struct{} {
	return c.done
}
