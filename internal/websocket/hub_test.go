package websocket

import (
	"sync"
	"testing"
)

// Clients here never start their pumps, so the hub's bookkeeping can be
// exercised without a real network connection.

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "user-1")
	hub.register <- client
	hub.unregister <- client

	// A second unregister of the same client must be a no-op
	done := make(chan struct{})
	go func() {
		hub.unregister <- client
		close(done)
	}()
	<-done
}

func TestBroadcastToUserDeliversToAllConnections(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := NewClient(hub, nil, "user-1")
	second := NewClient(hub, nil, "user-1")
	other := NewClient(hub, nil, "user-2")
	hub.register <- first
	hub.register <- second
	hub.register <- other

	hub.BroadcastToUser("user-1", []byte("hello"))

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.send:
			if string(msg) != "hello" {
				t.Errorf("got %q, want hello", msg)
			}
		default:
			t.Error("connection missed the broadcast")
		}
	}

	select {
	case <-other.send:
		t.Error("message leaked to another user")
	default:
	}
}

func TestBroadcastToUserConcurrentWithDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Interleave broadcasts with disconnects; a send racing a close of the
	// client's channel would panic the process
	for i := 0; i < 50; i++ {
		client := NewClient(hub, nil, "user-1")
		hub.register <- client

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				hub.BroadcastToUser("user-1", []byte("ping"))
			}
		}()

		hub.unregister <- client
		wg.Wait()
	}
}

func TestBroadcastDropsSaturatedConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "user-1")
	hub.register <- client

	// Nothing drains client.send, so the buffer eventually fills and the
	// hub must drop the connection instead of blocking
	for i := 0; i < cap(client.send)+2; i++ {
		hub.BroadcastToUser("user-1", []byte("flood"))
	}

	// Run handles events one at a time, so once it accepts this register
	// the pending unregister has been fully processed
	hub.register <- NewClient(hub, nil, "user-2")

	hub.mu.RLock()
	_, connected := hub.clients["user-1"]
	hub.mu.RUnlock()
	if connected {
		t.Error("saturated connection was not dropped")
	}
}
