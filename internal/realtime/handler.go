package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lapulperia/lapulperia-backend/pkg/config"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
)

const connectedMessage = "Conexión establecida. Recibirás actualizaciones en tiempo real."

// statusUpdater is the order state machine entry point used by the socket
// shortcut. It performs no ownership check; see the handshake note below.
type statusUpdater interface {
	UpdateStatusFromSocket(ctx context.Context, orderID string, status enums.OrderStatus) error
}

// Handler owns the per-connection websocket session loop:
// Connecting -> Open -> Closed.
type Handler struct {
	registry *Registry
	orders   statusUpdater
	cfg      config.RealtimeConfig
	logg     *logger.Logger
	upgrader websocket.Upgrader
}

// NewHandler builds the websocket session handler.
func NewHandler(registry *Registry, orders statusUpdater, cfg config.RealtimeConfig, logg *logger.Logger) *Handler {
	if cfg.ReceiveTimeout <= 0 {
		cfg.ReceiveTimeout = 60 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.MinUserIDLen <= 0 {
		cfg.MinUserIDLen = 5
	}
	return &Handler{
		registry: registry,
		orders:   orders,
		cfg:      cfg,
		logg:     logg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers connect from the marketplace frontend; origin policy
			// is enforced by the CORS layer on the REST surface.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeOrders handles GET /ws/orders/{userID}. The path parameter is the
// user id the caller claims to be; the optional token query parameter is
// read but not yet validated against a session.
func (h *Handler) ServeOrders(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	_ = r.URL.Query().Get("token")

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logg != nil {
			h.logg.Warn(r.Context(), "ws.upgrade failed")
		}
		return
	}

	ctx := r.Context()
	if len(userID) < h.cfg.MinUserIDLen {
		deadline := time.Now().Add(h.cfg.WriteTimeout)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(CloseInvalidUserID, "Invalid user_id"), deadline)
		_ = ws.Close()
		return
	}

	conn := newConn(ws, userID, h.cfg.WriteTimeout)
	h.registry.Register(ctx, conn)
	// Deregister exactly once on every exit path, errors included.
	defer func() {
		h.registry.Deregister(ctx, conn)
		_ = conn.Close()
	}()

	if err := conn.WriteJSON(ControlFrame{
		Type:    FrameConnected,
		Message: connectedMessage,
		UserID:  userID,
	}); err != nil {
		return
	}

	stop := make(chan struct{})
	defer close(stop)
	go h.keepAlive(ctx, conn, stop)

	h.readLoop(ctx, conn, ws)
}

// keepAlive probes a quiet connection with an application-level ping every
// receive-timeout interval. A failed probe closes the socket, which unblocks
// the read loop and tears the session down.
func (h *Handler) keepAlive(ctx context.Context, conn *Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(h.cfg.ReceiveTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteJSON(ControlFrame{Type: FramePing}); err != nil {
				if h.logg != nil {
					h.logg.Debug(h.logg.WithUserID(ctx, conn.UserID()), "ws.keepalive probe failed")
				}
				_ = conn.Close()
				return
			}
		}
	}
}

func (h *Handler) readLoop(ctx context.Context, conn *Conn, ws *websocket.Conn) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				if h.logg != nil {
					h.logg.Debug(h.logg.WithUserID(ctx, conn.UserID()), "ws.read ended: "+err.Error())
				}
			}
			return
		}
		h.dispatch(ctx, conn, data)
	}
}

// dispatch routes one inbound frame. Malformed or incomplete frames are
// silently dropped; no error-frame contract exists for clients.
func (h *Handler) dispatch(ctx context.Context, conn *Conn, data []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return
	}

	switch frame.Type {
	case FramePing:
		_ = conn.WriteJSON(ControlFrame{Type: FramePong})
	case FrameUpdateOrderStatus:
		if frame.OrderID == "" {
			return
		}
		status, err := enums.ParseOrderStatus(frame.Status)
		if err != nil {
			return
		}
		if err := h.orders.UpdateStatusFromSocket(ctx, frame.OrderID, status); err != nil && h.logg != nil {
			h.logg.Debug(h.logg.WithOrderID(ctx, frame.OrderID), "ws.status update dropped: "+err.Error())
		}
	}
}
