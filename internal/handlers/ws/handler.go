// Package ws exposes the campaign companion over a single websocket per
// client: a full state snapshot on connect, deltas as they commit, and
// intent frames upstream. The transport carries no rules of its own; every
// intent is validated by the orchestrators.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/campaign-api/internal/auth"
	"github.com/KirkDiggler/campaign-api/internal/errors"
	"github.com/KirkDiggler/campaign-api/internal/events"
	"github.com/KirkDiggler/campaign-api/internal/orchestrators/massbattle"
	"github.com/KirkDiggler/campaign-api/internal/orchestrators/skirmish"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8 * 1024

	// sendBuffer bounds the per-client outbound queue; a client that
	// cannot drain it is disconnected and expected to reconnect for a
	// fresh snapshot.
	sendBuffer = 128
)

// Config holds the dependencies for the websocket handler
type Config struct {
	Skirmish   skirmish.Service
	MassBattle massbattle.Service
	EventBus   *events.Bus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Skirmish == nil {
		vb.RequiredField("Skirmish")
	}
	if c.MassBattle == nil {
		vb.RequiredField("MassBattle")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

// Handler upgrades HTTP requests to campaign websocket sessions.
type Handler struct {
	skirmish   skirmish.Service
	massBattle massbattle.Service
	bus        *events.Bus
	upgrader   websocket.Upgrader
}

// NewHandler creates a new websocket handler with the provided dependencies
func NewHandler(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		skirmish:   cfg.Skirmish,
		massBattle: cfg.MassBattle,
		bus:        cfg.EventBus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The table app serves from other origins during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// intentFrame is one client request.
type intentFrame struct {
	// ID is echoed back so the client can match responses to requests.
	ID      string          `json:"id,omitempty"`
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type resultFrame struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Op   string `json:"op"`
	Data any    `json:"data,omitempty"`
}

type errorFrame struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Op      string `json:"op,omitempty"`
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

type eventFrame struct {
	Type  string       `json:"type"`
	Event events.Event `json:"event"`
}

// snapshotFrame is the first frame after connect: everything a late joiner
// needs before applying deltas.
type snapshotFrame struct {
	Type       string                         `json:"type"`
	CampaignID string                         `json:"campaign_id"`
	Combat     *skirmish.GetCombatStateOutput `json:"combat"`
	Battle     any                            `json:"battle,omitempty"`
}

type client struct {
	handler  *Handler
	conn     *websocket.Conn
	campaign string
	actor    auth.Actor
	send     chan any
}

// ServeHTTP upgrades the connection and runs the session pumps.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	campaign := r.URL.Query().Get("campaign")
	if campaign == "" {
		http.Error(w, "campaign query parameter is required", http.StatusBadRequest)
		return
	}
	actor := auth.Actor{
		UserID: r.URL.Query().Get("user"),
		DM:     r.URL.Query().Get("dm") == "true",
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		handler:  h,
		conn:     conn,
		campaign: campaign,
		actor:    actor,
		send:     make(chan any, sendBuffer),
	}

	// Subscribe before the snapshot so no committed event falls between
	// snapshot and first delta.
	eventCh, cancel := h.bus.Subscribe(campaign)

	slog.Info("Client connected",
		"campaign", campaign,
		"user", actor.UserID,
		"dm", actor.DM,
	)

	go c.writePump()
	go c.forwardEvents(eventCh)

	if err := c.sendSnapshot(r); err != nil {
		slog.Error("Failed to build snapshot", "campaign", campaign, "error", err)
	}

	c.readPump()
	cancel()
	close(c.send)
}

func (c *client) sendSnapshot(r *http.Request) error {
	combat, err := c.handler.skirmish.GetCombatState(r.Context(), &skirmish.GetCombatStateInput{
		SessionID: c.campaign,
	})
	if err != nil {
		return err
	}

	snapshot := snapshotFrame{
		Type:       "snapshot",
		CampaignID: c.campaign,
		Combat:     combat,
	}

	active, err := c.handler.massBattle.GetActiveBattle(r.Context(), &massbattle.GetActiveBattleInput{
		CampaignID: c.campaign,
	})
	if err != nil {
		return err
	}
	if active.Battle != nil {
		snapshot.Battle = active.Battle
	}

	c.enqueue(snapshot)
	return nil
}

func (c *client) forwardEvents(eventCh <-chan events.Event) {
	for event := range eventCh {
		c.enqueue(eventFrame{Type: "event", Event: event})
	}
}

// enqueue drops the frame if the client's queue is full; the write pump
// will disconnect slow clients via write deadline anyway.
func (c *client) enqueue(frame any) {
	defer func() {
		// The send channel closes when the read pump exits; a frame in
		// flight from the event forwarder may race that close.
		_ = recover()
	}()
	select {
	case c.send <- frame:
	default:
		slog.Warn("Dropping frame for slow client", "campaign", c.campaign, "user", c.actor.UserID)
	}
}

func (c *client) readPump() {
	defer func() { _ = c.conn.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("Client read error", "campaign", c.campaign, "error", err)
			}
			return
		}

		var frame intentFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.enqueue(errorFrame{
				Type:    "error",
				Code:    string(errors.CodeInvalidArgument),
				Message: "malformed intent frame",
			})
			continue
		}

		data, err := c.dispatch(frame)
		if err != nil {
			c.enqueue(errorFrame{
				Type:    "error",
				ID:      frame.ID,
				Op:      frame.Op,
				Code:    string(errors.GetCode(err)),
				Reason:  string(errors.GetReason(err)),
				Message: errors.GetMessage(err),
			})
			continue
		}
		c.enqueue(resultFrame{Type: "result", ID: frame.ID, Op: frame.Op, Data: data})
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
