// Package live serves interactive query sessions over WebSocket. Each
// connection owns one catalog.Session; every query message recomputes the
// pipeline once and pushes the result back.
package live

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/HerbHall/shopfind/internal/catalog"
	"github.com/HerbHall/shopfind/pkg/models"
)

// Client message types.
const (
	TypeQuery  = "query"
	TypeSelect = "select"
	TypeRank   = "rank"
)

// Server message types.
const (
	TypeResults   = "results"
	TypeSelection = "selection"
	TypeError     = "error"
)

const (
	readLimit    = 16 << 10
	writeTimeout = 5 * time.Second
)

// ClientMessage is sent by the browser. Query messages carry the whole query
// state; FreeText and Category replace the previous values.
type ClientMessage struct {
	Type     string `json:"type"`
	FreeText string `json:"free_text,omitempty"`
	Category string `json:"category,omitempty"`
	ID       string `json:"id,omitempty"`
}

// ServerMessage is pushed to the browser. A results message with no
// matching products omits the products field.
type ServerMessage struct {
	Type     string               `json:"type"`
	Session  string               `json:"session,omitempty"`
	Revision uint64               `json:"revision,omitempty"`
	Products []models.ProductView `json:"products,omitempty"`
	ID       *string              `json:"id,omitempty"`
	Message  string               `json:"message,omitempty"`
}

// SelectionObserver is told the outcome of every forwarded selection.
type SelectionObserver interface {
	ObserveSelection(err error)
}

// Handler upgrades requests to WebSocket query sessions.
type Handler struct {
	engine         *catalog.Engine
	sink           catalog.SelectionSink
	logger         *zap.Logger
	observer       SelectionObserver
	originPatterns []string
}

// Option configures a Handler.
type Option func(*Handler)

// WithOriginPatterns allows cross-origin connections from matching hosts.
func WithOriginPatterns(patterns ...string) Option {
	return func(h *Handler) { h.originPatterns = patterns }
}

// WithSelectionObserver reports selection outcomes to o.
func WithSelectionObserver(o SelectionObserver) Option {
	return func(h *Handler) { h.observer = o }
}

// NewHandler creates a live session handler. sink may be nil.
func NewHandler(engine *catalog.Engine, sink catalog.SelectionSink, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{engine: engine, sink: sink, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/live", h.handleLive)
}

func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	session := catalog.NewSession(h.engine, h.sink)
	logger := h.logger.With(zap.String("session", session.ID()))
	logger.Debug("live session opened")

	err = h.run(r.Context(), conn, session, logger)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		logger.Debug("live session closed")
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("live session ended", zap.Error(err))
		conn.Close(websocket.StatusInternalError, "session error")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

// run sends the initial catalog and then answers messages until the client
// goes away.
func (h *Handler) run(ctx context.Context, conn *websocket.Conn, session *catalog.Session, logger *zap.Logger) error {
	first := session.Refresh()
	if err := write(ctx, conn, resultsMessage(session.ID(), first)); err != nil {
		return err
	}

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}
		reply := h.dispatch(ctx, session, msg, logger)
		if err := write(ctx, conn, reply); err != nil {
			return err
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, session *catalog.Session, msg ClientMessage, logger *zap.Logger) ServerMessage {
	switch msg.Type {
	case TypeQuery:
		res := session.Update(catalog.QueryState{FreeText: msg.FreeText, Category: msg.Category})
		return resultsMessage(session.ID(), res)
	case TypeRank:
		return resultsMessage(session.ID(), session.Rank())
	case TypeSelect:
		err := session.Select(ctx, msg.ID)
		if errors.Is(err, catalog.ErrNotFound) {
			return ServerMessage{Type: TypeError, Message: "product " + msg.ID + " not found"}
		}
		if h.observer != nil {
			h.observer.ObserveSelection(err)
		}
		if err != nil {
			logger.Error("failed to forward selection", zap.String("id", msg.ID), zap.Error(err))
			return ServerMessage{Type: TypeError, Message: "failed to forward selection"}
		}
		id := session.Selected()
		return ServerMessage{Type: TypeSelection, ID: &id}
	default:
		return ServerMessage{Type: TypeError, Message: "unknown message type " + msg.Type}
	}
}

func resultsMessage(sessionID string, res catalog.Result) ServerMessage {
	return ServerMessage{
		Type:     TypeResults,
		Session:  sessionID,
		Revision: res.Revision,
		Products: models.NewProductViews(res.Products),
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg ServerMessage) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}
