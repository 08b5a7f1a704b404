package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
	"github.com/lapulperia/lapulperia-backend/pkg/metrics"
)

// broadcaster is the registry surface the notifier needs.
type broadcaster interface {
	SendToUser(ctx context.Context, userID string, payload any)
}

// storeFinder resolves the pulpería referenced by an order to find its owner.
type storeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Store, error)
}

// Notifier translates a persisted order mutation into role-specific
// real-time notifications. Delivery is best-effort and fire-and-forget: the
// order record is the data of record, a missed push is recoverable by
// re-polling.
type Notifier struct {
	registry broadcaster
	stores   storeFinder
	logg     *logger.Logger
	metrics  *metrics.RealtimeMetrics
}

// NewNotifier wires the notifier dependencies.
func NewNotifier(registry broadcaster, stores storeFinder, logg *logger.Logger, m *metrics.RealtimeMetrics) (*Notifier, error) {
	if registry == nil {
		return nil, fmt.Errorf("connection registry required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store finder required")
	}
	return &Notifier{
		registry: registry,
		stores:   stores,
		logg:     logg,
		metrics:  m,
	}, nil
}

// ownerMessages is keyed by the event kind: the owner cares about what
// happened.
var ownerMessages = map[enums.OrderEvent]string{
	enums.OrderEventNewOrder:      "🔔 ¡Nueva orden #%s! Total: L%.2f",
	enums.OrderEventStatusChanged: "📦 Orden #%s actualizada a: %s",
	enums.OrderEventCancelled:     "❌ Orden #%s cancelada",
}

// customerStatusMessages is keyed by the order's current status: the
// customer cares about where their order stands.
var customerStatusMessages = map[enums.OrderStatus]string{
	enums.OrderStatusPending:   "⏳ Tu orden está pendiente de confirmación",
	enums.OrderStatusAccepted:  "✅ ¡Tu orden fue aceptada! La están preparando",
	enums.OrderStatusReady:     "🎉 ¡Tu orden está lista para recoger!",
	enums.OrderStatusCompleted: "✔️ Orden completada. ¡Gracias!",
	enums.OrderStatusCancelled: "❌ Tu orden fue cancelada",
}

// Notify resolves the two interested parties and pushes them role-specific
// frames. Failure to resolve the store skips the owner only; the deliveries
// are independent and neither aborts the other.
func (n *Notifier) Notify(ctx context.Context, order *models.Order, event enums.OrderEvent) {
	if order == nil {
		return
	}

	snapshot := SnapshotOrder(order)
	timestamp := time.Now().UTC().Format(time.RFC3339)

	ownerID := n.resolveOwner(ctx, order.PulperiaID)
	if ownerID != "" {
		frame := OrderUpdateFrame{
			Type:      FrameOrderUpdate,
			Event:     event,
			Order:     snapshot,
			Timestamp: timestamp,
			Target:    TargetOwner,
			Message:   OwnerMessage(event, order),
			Sound:     event == enums.OrderEventNewOrder,
		}
		n.registry.SendToUser(ctx, ownerID, frame)
		n.metrics.FrameDelivered(event.String())
		if n.logg != nil {
			fields := map[string]any{"event": event.String(), "order_id": order.ID, "target": TargetOwner, "user_id": ownerID}
			n.logg.Info(n.logg.WithFields(ctx, fields), "notify.sent")
		}
	}

	if order.CustomerUserID != "" {
		frame := OrderUpdateFrame{
			Type:      FrameOrderUpdate,
			Event:     event,
			Order:     snapshot,
			Timestamp: timestamp,
			Target:    TargetCustomer,
			Message:   CustomerMessage(event, order),
			Sound:     order.Status == enums.OrderStatusReady || order.Status == enums.OrderStatusAccepted,
		}
		n.registry.SendToUser(ctx, order.CustomerUserID, frame)
		n.metrics.FrameDelivered(event.String())
		if n.logg != nil {
			fields := map[string]any{"event": event.String(), "order_id": order.ID, "target": TargetCustomer, "user_id": order.CustomerUserID}
			n.logg.Info(n.logg.WithFields(ctx, fields), "notify.sent")
		}
	}
}

func (n *Notifier) resolveOwner(ctx context.Context, pulperiaID string) string {
	store, err := n.stores.FindByID(ctx, pulperiaID)
	if err != nil || store == nil {
		// Owner lookup failure must not abort customer notification.
		if n.logg != nil {
			n.logg.Warn(n.logg.WithPulperiaID(ctx, pulperiaID), "notify.owner lookup failed")
		}
		return ""
	}
	return store.OwnerUserID
}

// OwnerMessage builds the pulpería-facing text for an event kind.
func OwnerMessage(event enums.OrderEvent, order *models.Order) string {
	short := ids.Short(order.ID)
	template, ok := ownerMessages[event]
	if !ok {
		return fmt.Sprintf("Actualización de orden #%s", short)
	}
	switch event {
	case enums.OrderEventNewOrder:
		return fmt.Sprintf(template, short, order.Total)
	case enums.OrderEventStatusChanged:
		return fmt.Sprintf(template, short, order.Status)
	default:
		return fmt.Sprintf(template, short)
	}
}

// CustomerMessage builds the customer-facing text. A new_order event always
// yields the fixed creation confirmation; anything else is keyed by the
// order's current status so the cancellation event and arbitrary
// status_changed values can coexist.
func CustomerMessage(event enums.OrderEvent, order *models.Order) string {
	short := ids.Short(order.ID)
	if event == enums.OrderEventNewOrder {
		return fmt.Sprintf("📝 Orden #%s creada exitosamente", short)
	}
	if msg, ok := customerStatusMessages[order.Status]; ok {
		return msg
	}
	return fmt.Sprintf("Actualización de orden #%s", short)
}
