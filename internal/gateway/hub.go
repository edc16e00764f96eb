package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	pkgredis "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/redis"
)

func NewHub(rc *pkgredis.Client, logger *zap.Logger, tokenValidator func(string) bool) *Hub {
	sio := socketio.NewServer(nil, nil)
	h := &Hub{
		sidRoom:        make(map[string]string),
		roomCount:      make(map[string]int),
		broadcast:      make(chan Message, 256),
		register:       make(chan clientMeta, 256),
		unregister:     make(chan clientMeta, 256),
		rc:             rc,
		logger:         logger,
		sio:            sio,
		tokenValidator: tokenValidator,
	}
	h.registerNamespaces()
	return h
}

// Run drives the hub until ctx is cancelled. Local deliveries and the Redis
// publish for sibling instances happen on the same loop; the subscriber runs
// alongside it.
func (h *Hub) Run(ctx context.Context) {
	if h.rc != nil {
		go h.subscribeRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.deliver(msg)
			h.publishRedis(ctx, msg)
		}
	}
}

func (h *Hub) registerClient(c clientMeta) {
	notifyOnline := false
	online := 0

	h.mu.Lock()
	if old, ok := h.sidRoom[c.sid]; ok {
		if old == c.room {
			h.mu.Unlock()
			return
		}
		if h.roomCount[old] > 0 {
			h.roomCount[old]--
		}
	}
	h.sidRoom[c.sid] = c.room
	h.roomCount[c.room]++
	if c.room == RoomWeb {
		notifyOnline = true
		online = h.roomCount[RoomWeb]
	}
	h.mu.Unlock()

	if notifyOnline {
		h.EmitDashboard(EventVisitorOnline, map[string]interface{}{"online": online})
	}
}

func (h *Hub) unregisterClient(c clientMeta) {
	notifyOnline := false
	online := 0

	h.mu.Lock()
	room, ok := h.sidRoom[c.sid]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sidRoom, c.sid)
	if h.roomCount[room] > 0 {
		h.roomCount[room]--
	}
	if room == RoomWeb {
		notifyOnline = true
		online = h.roomCount[RoomWeb]
	}
	h.mu.Unlock()

	if notifyOnline {
		h.EmitDashboard(EventVisitorOnline, map[string]interface{}{"online": online})
	}
}

// Emit queues an event for the given room. The send never blocks: when the
// buffer is full the event is dropped, which is acceptable for advisory
// notifications.
func (h *Hub) Emit(event string, payload interface{}, room string) {
	select {
	case h.broadcast <- Message{Event: event, Payload: payload, Room: room}:
	default:
		if h.logger != nil {
			h.logger.Warn("gateway broadcast buffer full, dropping event",
				zap.String("event", event))
		}
	}
}

// EmitDashboard sends to connected dashboard clients only.
func (h *Hub) EmitDashboard(event string, payload interface{}) {
	h.Emit(event, payload, RoomDashboard)
}

// EmitWeb sends to public site clients.
func (h *Hub) EmitWeb(event string, payload interface{}) {
	h.Emit(event, payload, RoomWeb)
}

// ClientCount returns the number of connected clients, optionally filtered by room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room == "" {
		return len(h.sidRoom)
	}
	return h.roomCount[room]
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}

func (h *Hub) emitNamespace(nsp string, msg Message) {
	h.sio.Of(nsp, nil).Emit("message", envelope{Type: msg.Event, Data: msg.Payload})
}

func (h *Hub) deliver(msg Message) {
	switch msg.Room {
	case RoomDashboard:
		h.emitNamespace(namespaceDashboard, msg)
	case RoomWeb:
		h.emitNamespace(namespaceWeb, msg)
	case "":
		h.emitNamespace(namespaceDashboard, msg)
		h.emitNamespace(namespaceWeb, msg)
	}
}

func (h *Hub) publishRedis(ctx context.Context, msg Message) {
	if h.rc == nil {
		return
	}
	channel := redisChanWeb
	if msg.Room == RoomDashboard {
		channel = redisChanDashboard
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := h.rc.Publish(ctx, channel, string(data)); err != nil && h.logger != nil {
		h.logger.Warn("gateway publish failed", zap.String("channel", channel), zap.Error(err))
	}
}

// subscribeRedis replays broadcasts published by other server instances.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanDashboard, redisChanWeb)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			h.deliver(msg)
		}
	}
}
