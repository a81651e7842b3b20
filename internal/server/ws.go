package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/turboplaylist/turboplaylist/internal/download"
	"github.com/turboplaylist/turboplaylist/internal/format"
	"github.com/turboplaylist/turboplaylist/internal/model"
	"github.com/turboplaylist/turboplaylist/internal/session"
)

// Event channel message types.
const (
	msgStartDownload  = "start_download"
	msgProgressUpdate = "progress_update"
	msgItemComplete   = "item_complete"
	msgRunComplete    = "run_complete"
	msgError          = "error"
)

const sendBufferSize = 256

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outbound struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type startDownloadPayload struct {
	Items              []startItem `json:"items"`
	TargetKind         string      `json:"targetKind"`
	Quality            string      `json:"quality"`
	ConcurrencyProfile string      `json:"concurrencyProfile"`
}

// startItem mirrors the wire shape of one selected item; the variant fields
// are null when the client kept the default selection.
type startItem struct {
	ID        string  `json:"id"`
	VariantID *string `json:"variantId"`
	HasVideo  *bool   `json:"hasVideo"`
	HasAudio  *bool   `json:"hasAudio"`
	Container *string `json:"container"`
}

type progressPayload struct {
	ItemID   string  `json:"itemId"`
	Progress float64 `json:"progress"`
	Speed    string  `json:"speed"`
	ETA      string  `json:"eta"`
}

type itemCompletePayload struct {
	ItemID string `json:"itemId"`
}

type runCompletePayload struct {
	DownloadURL string `json:"downloadUrl"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// client is one event-channel connection. It implements download.EventSink;
// events are serialized through a single writer goroutine and dropped
// best-effort once the peer is gone, so a disconnected client never blocks
// an orchestration run.
type client struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	session model.Session
	logger  *zap.Logger
}

func newClient(conn *websocket.Conn, sess model.Session, logger *zap.Logger) *client {
	return &client{
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		session: sess,
		logger:  logger,
	}
}

// handleWS upgrades the connection, creates the session directory eagerly
// and serves the event channel until the peer disconnects. Disconnecting
// does not cancel in-flight tasks; their outputs stay retrievable until the
// TTL sweep.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sess, err := s.store.Create(session.NewID())
	if err != nil {
		s.logger.Error("session creation failed", zap.Error(err))
		conn.Close()
		return
	}

	c := newClient(conn, sess, s.logger.With(zap.String("session", sess.ID)))
	go c.writePump()
	s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer func() {
		close(c.done)
		c.conn.Close()
		c.logger.Debug("event channel closed",
			zap.Duration("session_age", c.session.Age(time.Now())))
	}()

	for {
		var env envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			return
		}
		switch env.Type {
		case msgStartDownload:
			s.startDownload(c, env.Data)
		default:
			c.logger.Debug("ignoring unknown message", zap.String("type", env.Type))
		}
	}
}

func (s *Server) startDownload(c *client, data json.RawMessage) {
	var payload startDownloadPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.sendError("invalid start_download payload")
		return
	}
	if len(payload.Items) == 0 {
		c.sendError("no items selected")
		return
	}

	req := download.Request{
		Items:   make([]download.ItemRequest, 0, len(payload.Items)),
		Target:  format.ParseTarget(payload.TargetKind),
		Quality: payload.Quality,
		Profile: model.ParseProfile(payload.ConcurrencyProfile),
	}
	for _, item := range payload.Items {
		ir := download.ItemRequest{ID: item.ID}
		if item.VariantID != nil {
			ir.VariantID = *item.VariantID
		}
		if item.HasVideo != nil {
			ir.HasVideo = *item.HasVideo
		}
		if item.HasAudio != nil {
			ir.HasAudio = *item.HasAudio
		}
		if item.Container != nil {
			ir.Container = *item.Container
		}
		req.Items = append(req.Items, ir)
	}

	c.logger.Info("starting download run",
		zap.Int("items", len(req.Items)),
		zap.String("target", string(req.Target)),
		zap.String("profile", req.Profile.String()),
	)

	// Runs outlive the connection.
	go s.orch.Run(context.Background(), c.session, req, c)
}

// ProgressUpdate implements download.EventSink.
func (c *client) ProgressUpdate(itemID string, progress float64, speed, eta string) {
	c.enqueue(outbound{Type: msgProgressUpdate, Data: progressPayload{
		ItemID:   itemID,
		Progress: progress,
		Speed:    speed,
		ETA:      eta,
	}})
}

// ItemComplete implements download.EventSink.
func (c *client) ItemComplete(itemID string) {
	c.enqueue(outbound{Type: msgItemComplete, Data: itemCompletePayload{ItemID: itemID}})
}

// RunComplete implements download.EventSink.
func (c *client) RunComplete(downloadURL string) {
	c.enqueue(outbound{Type: msgRunComplete, Data: runCompletePayload{DownloadURL: downloadURL}})
}

func (c *client) sendError(msg string) {
	c.enqueue(outbound{Type: msgError, Data: errorPayload{Message: msg}})
}

// enqueue marshals and queues one event without ever blocking the caller:
// events are dropped when the peer is gone or the buffer is full.
func (c *client) enqueue(v outbound) {
	b, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("failed to marshal event", zap.Error(err))
		return
	}
	select {
	case <-c.done:
	case c.send <- b:
	default:
		c.logger.Debug("event dropped, send buffer full", zap.String("type", v.Type))
	}
}

func (c *client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case b := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}
