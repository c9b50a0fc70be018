package connectionhub

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"

	wsmodels "cpm-backend/models/ws"
)

type Provider interface {
	AddClient(channel, clientID string, conn *websocket.Conn)
	DeleteClient(channel, clientID string)
	Broadcast(msg wsmodels.ServerMessage)
	IsConnected(channel, clientID string) bool
}

var Instance Provider

func Init() {
	Instance = &impl{
		channels: map[string]map[string]clientSession{},
	}
}

type impl struct {
	mu       sync.RWMutex
	channels map[string]map[string]clientSession //map[channel]map[clientID]
}

func (i *impl) AddClient(channel, clientID string, conn *websocket.Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	subs, ok := i.channels[channel]
	if !ok {
		subs = map[string]clientSession{}
		i.channels[channel] = subs
	}
	if oldSess, ok := subs[clientID]; ok {
		oldSess.stop()
	}
	subs[clientID] = newSession(conn)
}

func (i *impl) DeleteClient(channel, clientID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	subs, ok := i.channels[channel]
	if !ok {
		return
	}
	sess, ok := subs[clientID]
	if !ok {
		return
	}
	delete(subs, clientID)
	if len(subs) == 0 {
		delete(i.channels, channel)
	}
	sess.stop()
	close(sess.sendCh)
}

// Broadcast delivers the message to every subscriber of its channel.
// Called after a successful commit, never from inside a transaction.
// Delivery is best-effort: a subscriber whose send buffer is full loses
// the message instead of blocking the broadcaster.
func (i *impl) Broadcast(msg wsmodels.ServerMessage) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for clientID, sess := range i.channels[msg.Channel] {
		select {
		case sess.sendCh <- msg:
		default:
			log.
				WithField("channel", msg.Channel).
				WithField("client_id", clientID).
				Warn("ws send buffer full, message dropped")
		}
	}
}

func (i *impl) IsConnected(channel, clientID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.channels[channel][clientID]
	if !ok || sess.conn == nil || sess.conn.Conn == nil {
		return false
	}
	return true
}
