package server

import (
	"context"
	"net/http"
	"time"

	"github.com/etnz/folio"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const writeTimeout = 10 * time.Second

// handleStream pushes the current snapshot on connection, then a new one
// after every mutation. A slow client only receives the latest snapshot.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.origins})
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer c.CloseNow()

	updates := make(chan folio.Snapshot, 1)
	cancel := s.store.Subscribe(func(snap folio.Snapshot) {
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- snap:
		default:
		}
	})
	defer cancel()

	// the client never sends messages, CloseRead handles its close frame.
	ctx := c.CloseRead(r.Context())
	snap := s.store.Snapshot()
	for {
		wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(wctx, c, snap)
		wcancel()
		if err != nil {
			s.log.Debug().Err(err).Msg("websocket closed")
			return
		}
		// skip snapshots older than the one just sent
		for sent := snap.Version; snap.Version <= sent; {
			select {
			case <-ctx.Done():
				c.Close(websocket.StatusNormalClosure, "")
				return
			case snap = <-updates:
			}
		}
	}
}
