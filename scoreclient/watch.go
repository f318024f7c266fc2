package scoreclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

const msgLeaderboardUpdate = "leaderboard_update"

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// WatchLeaderboard calls fn with every leaderboard the server pushes until
// ctx is done or the connection drops. The first call carries the board as
// of connecting. It returns nil when ctx ended the watch.
func (c *Client) WatchLeaderboard(ctx context.Context, fn func([]Entry)) error {
	wsURL, err := c.websocketURL("/ws/leaderboard")
	if err != nil {
		return fmt.Errorf("scoreclient: leaderboard url: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("scoreclient: dial leaderboard: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("scoreclient: read leaderboard: %w", err)
		}
		if msg.Type != msgLeaderboardUpdate {
			continue
		}

		var entries []Entry
		if err := json.Unmarshal(msg.Payload, &entries); err != nil {
			return fmt.Errorf("scoreclient: decode leaderboard: %w", err)
		}
		fn(entries)
	}
}
