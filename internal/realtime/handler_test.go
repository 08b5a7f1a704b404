package realtime

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lapulperia/lapulperia-backend/pkg/config"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
)

type statusCall struct {
	orderID string
	status  enums.OrderStatus
}

type fakeStatusUpdater struct {
	calls chan statusCall
	err   error
}

func (f *fakeStatusUpdater) UpdateStatusFromSocket(_ context.Context, orderID string, status enums.OrderStatus) error {
	f.calls <- statusCall{orderID: orderID, status: status}
	return f.err
}

func newHandlerTestServer(t *testing.T, updater statusUpdater) (*httptest.Server, *Registry) {
	t.Helper()
	registry := NewRegistry(nil, nil)
	handler := NewHandler(registry, updater, config.RealtimeConfig{
		ReceiveTimeout: time.Minute,
		WriteTimeout:   time.Second,
		MinUserIDLen:   5,
	}, nil)

	router := chi.NewRouter()
	router.Get("/ws/orders/{userID}", handler.ServeOrders)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, registry
}

func dialOrders(t *testing.T, server *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/orders/" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServeOrdersRejectsShortUserID(t *testing.T) {
	server, registry := newHandlerTestServer(t, &fakeStatusUpdater{calls: make(chan statusCall, 1)})

	conn := dialOrders(t, server, "u1")
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("expected a close frame, got %v", err)
	}
	if closeErr.Code != CloseInvalidUserID {
		t.Fatalf("close code = %d, want %d", closeErr.Code, CloseInvalidUserID)
	}
	if ok, _ := registry.IsConnected("u1"); ok {
		t.Fatalf("rejected session must never be registered")
	}
}

func TestServeOrdersSendsConnectedFrame(t *testing.T) {
	server, registry := newHandlerTestServer(t, &fakeStatusUpdater{calls: make(chan statusCall, 1)})

	conn := dialOrders(t, server, "user_12345")
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var frame ControlFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("reading connected frame: %v", err)
	}
	if frame.Type != FrameConnected {
		t.Fatalf("frame type = %q, want %q", frame.Type, FrameConnected)
	}
	if frame.UserID != "user_12345" {
		t.Fatalf("frame user id = %q", frame.UserID)
	}
	if !strings.Contains(frame.Message, "Conexión establecida") {
		t.Fatalf("unexpected greeting %q", frame.Message)
	}
	if ok, count := registry.IsConnected("user_12345"); !ok || count != 1 {
		t.Fatalf("session must be registered while open, got ok=%v count=%d", ok, count)
	}
}

func TestServeOrdersPingPong(t *testing.T) {
	server, _ := newHandlerTestServer(t, &fakeStatusUpdater{calls: make(chan statusCall, 1)})

	conn := dialOrders(t, server, "user_12345")
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var connected ControlFrame
	if err := conn.ReadJSON(&connected); err != nil {
		t.Fatalf("reading connected frame: %v", err)
	}

	if err := conn.WriteJSON(InboundFrame{Type: FramePing}); err != nil {
		t.Fatalf("writing ping: %v", err)
	}

	var pong ControlFrame
	if err := conn.ReadJSON(&pong); err != nil {
		t.Fatalf("reading pong: %v", err)
	}
	if pong.Type != FramePong {
		t.Fatalf("frame type = %q, want %q", pong.Type, FramePong)
	}
}

func TestServeOrdersDispatchesStatusUpdate(t *testing.T) {
	updater := &fakeStatusUpdater{calls: make(chan statusCall, 1)}
	server, _ := newHandlerTestServer(t, updater)

	conn := dialOrders(t, server, "user_12345")
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var connected ControlFrame
	if err := conn.ReadJSON(&connected); err != nil {
		t.Fatalf("reading connected frame: %v", err)
	}

	if err := conn.WriteJSON(InboundFrame{
		Type:    FrameUpdateOrderStatus,
		OrderID: "order_a1b2c3d4e5f6",
		Status:  "accepted",
	}); err != nil {
		t.Fatalf("writing status frame: %v", err)
	}

	select {
	case call := <-updater.calls:
		if call.orderID != "order_a1b2c3d4e5f6" {
			t.Fatalf("order id = %q", call.orderID)
		}
		if call.status != enums.OrderStatusAccepted {
			t.Fatalf("status = %q", call.status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("status update never reached the service")
	}
}

func TestServeOrdersDropsMalformedFrames(t *testing.T) {
	updater := &fakeStatusUpdater{calls: make(chan statusCall, 1)}
	server, _ := newHandlerTestServer(t, updater)

	conn := dialOrders(t, server, "user_12345")
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var connected ControlFrame
	if err := conn.ReadJSON(&connected); err != nil {
		t.Fatalf("reading connected frame: %v", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json at all")); err != nil {
		t.Fatalf("writing garbage: %v", err)
	}
	if err := conn.WriteJSON(InboundFrame{Type: FrameUpdateOrderStatus, OrderID: "order_x", Status: "flying"}); err != nil {
		t.Fatalf("writing invalid status: %v", err)
	}

	// The session must survive both bad frames and still answer pings.
	if err := conn.WriteJSON(InboundFrame{Type: FramePing}); err != nil {
		t.Fatalf("writing ping: %v", err)
	}
	var pong ControlFrame
	if err := conn.ReadJSON(&pong); err != nil {
		t.Fatalf("reading pong: %v", err)
	}
	if pong.Type != FramePong {
		t.Fatalf("frame type = %q, want %q", pong.Type, FramePong)
	}

	select {
	case call := <-updater.calls:
		t.Fatalf("malformed frames must not reach the service, got %+v", call)
	default:
	}
}

func TestServeOrdersDeregistersOnDisconnect(t *testing.T) {
	server, registry := newHandlerTestServer(t, &fakeStatusUpdater{calls: make(chan statusCall, 1)})

	conn := dialOrders(t, server, "user_12345")
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var connected ControlFrame
	if err := conn.ReadJSON(&connected); err != nil {
		t.Fatalf("reading connected frame: %v", err)
	}

	_ = conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ok, _ := registry.IsConnected("user_12345"); !ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("session was not deregistered after disconnect")
}
