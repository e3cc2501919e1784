package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/realtime"
)

// InventoryNotifier pushes stock changes to connected dashboards. A nil
// notifier, or one without an emitter, is a no-op.
type InventoryNotifier interface {
	EntryRecorded(ctx context.Context, batch *types.Batch, by uuid.UUID)
	Dispatched(ctx context.Context, plan inventory.DispatchPlan, by uuid.UUID)
	BatchUpdated(ctx context.Context, batch *types.Batch)
	BatchDeleted(ctx context.Context, batch *types.Batch)
	ProductChanged(ctx context.Context, product *types.Product, action string)
	ExpiryAlert(ctx context.Context, critical, expired []inventory.ExpiryStatus)
}

type inventoryNotifier struct {
	emit SSEEmitter
}

func NewInventoryNotifier(emit SSEEmitter) InventoryNotifier {
	return &inventoryNotifier{emit: emit}
}

func (n *inventoryNotifier) send(ctx context.Context, event realtime.SSEEvent, data map[string]any) {
	if n == nil || n.emit == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelInventory, Event: event, Data: data})
}

func (n *inventoryNotifier) EntryRecorded(ctx context.Context, batch *types.Batch, by uuid.UUID) {
	n.send(ctx, realtime.SSEEventEntryRecorded, map[string]any{"batch": batch, "user_id": by})
}

func (n *inventoryNotifier) Dispatched(ctx context.Context, plan inventory.DispatchPlan, by uuid.UUID) {
	n.send(ctx, realtime.SSEEventDispatched, map[string]any{
		"product_id":  plan.ProductID,
		"requested":   plan.Requested,
		"allocations": plan.Allocations,
		"user_id":     by,
	})
}

func (n *inventoryNotifier) BatchUpdated(ctx context.Context, batch *types.Batch) {
	n.send(ctx, realtime.SSEEventBatchUpdated, map[string]any{"batch": batch})
}

func (n *inventoryNotifier) BatchDeleted(ctx context.Context, batch *types.Batch) {
	n.send(ctx, realtime.SSEEventBatchDeleted, map[string]any{"batch_id": batch.ID, "product_id": batch.ProductID, "batch_number": batch.BatchNumber})
}

func (n *inventoryNotifier) ProductChanged(ctx context.Context, product *types.Product, action string) {
	n.send(ctx, realtime.SSEEventProductChanged, map[string]any{"product": product, "action": action})
}

func (n *inventoryNotifier) ExpiryAlert(ctx context.Context, critical, expired []inventory.ExpiryStatus) {
	n.send(ctx, realtime.SSEEventExpiryAlert, map[string]any{"critical": critical, "expired": expired})
}
