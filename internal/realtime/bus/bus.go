package bus

import (
	"context"

	"github.com/yungbote/sca-inventory-backend/internal/realtime"
)

// Bus fans realtime messages out to every API instance. Each instance runs a
// forwarder that hands received messages to its local SSE hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
