package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(logger.Nop())

	clientA := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, ChannelInventory)

	hub.Broadcast(SSEMessage{Channel: ChannelInventory, Event: SSEEventEntryRecorded, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: ChannelInventory, Event: SSEEventDispatched, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventEntryRecorded {
		t.Fatalf("first event: got %s", got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventDispatched {
		t.Fatalf("second event: got %s", got.Event)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("outbound should be closed after disconnect")
	}
	if n := hub.Subscribers(ChannelInventory); n != 0 {
		t.Fatalf("expected no subscribers, got %d", n)
	}

	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientB, ChannelInventory)
	hub.Broadcast(SSEMessage{Channel: ChannelInventory, Event: SSEEventExpiryAlert})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventExpiryAlert {
		t.Fatalf("reconnect event: got %s", got.Event)
	}
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, ChannelInventory)

	for i := 0; i < cap(client.Outbound)+5; i++ {
		hub.Broadcast(SSEMessage{Channel: ChannelInventory, Event: SSEEventBatchUpdated})
	}
	if len(client.Outbound) != cap(client.Outbound) {
		t.Fatalf("expected full buffer, got %d", len(client.Outbound))
	}
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, ChannelInventory)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	hub.Broadcast(SSEMessage{Channel: ChannelInventory, Event: SSEEventDispatched, Data: map[string]any{"batch_number": "L001"}})

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "data: ") {
			if !strings.Contains(line, `"batch_number":"L001"`) {
				t.Fatalf("unexpected data line %s", line)
			}
			return
		}
	}
	t.Fatalf("stream ended without data: %v", sc.Err())
}
