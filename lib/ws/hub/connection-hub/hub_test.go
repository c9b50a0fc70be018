package connectionhub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	wsmodels "cpm-backend/models/ws"
)

func TestBroadcast(t *testing.T) {
	t.Run(`full send buffer drops the message instead of blocking`, func(t *testing.T) {
		stuck := clientSession{sendCh: make(chan any, 1), stop: func() {}}
		stuck.sendCh <- "occupied"
		healthy := clientSession{sendCh: make(chan any, 1), stop: func() {}}
		hub := &impl{
			channels: map[string]map[string]clientSession{
				"project:p1": {
					"stuck":   stuck,
					"healthy": healthy,
				},
			},
		}

		msg := wsmodels.ServerMessage{
			Channel: "project:p1",
			Event:   wsmodels.EventDocumentUpdated,
		}
		done := make(chan struct{})
		go func() {
			hub.Broadcast(msg)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("broadcast blocked on a full client send buffer")
		}

		// the healthy subscriber still gets the message
		select {
		case got := <-healthy.sendCh:
			require.Equal(t, msg, got)
		default:
			t.Fatal("healthy subscriber did not receive the message")
		}
		require.Equal(t, "occupied", <-stuck.sendCh)
	})

	t.Run(`unknown channel is a no-op`, func(t *testing.T) {
		hub := &impl{channels: map[string]map[string]clientSession{}}
		hub.Broadcast(wsmodels.ServerMessage{Channel: "project:missing"})
	})
}
