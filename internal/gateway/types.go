// Package gateway pushes real-time events to connected dashboard and site
// clients over socket.io. All emits are fire-and-forget: a slow or absent
// listener never blocks the HTTP request that produced the event.
package gateway

import (
	"sync"

	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	pkgredis "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/redis"
)

const (
	RoomDashboard = "dashboard"
	RoomWeb       = "web"

	namespaceDashboard = "/dashboard"
	namespaceWeb       = "/web"

	redisChanDashboard = "nisio:gateway:dashboard"
	redisChanWeb       = "nisio:gateway:web"
)

// Dashboard-facing event types.
const (
	EventContactNew    = "CONTACT_NEW"
	EventVisitorOnline = "VISITOR_ONLINE"
	EventPageView      = "PAGE_VIEW"
	EventContentUpdate = "CONTENT_UPDATE"
)

// Message is the envelope used by hub broadcasts and Redis fan-out.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clientMeta struct {
	sid  string
	room string
}

// Hub manages socket.io namespaces and cross-instance fan-out.
type Hub struct {
	mu        sync.RWMutex
	sidRoom   map[string]string
	roomCount map[string]int

	broadcast  chan Message
	register   chan clientMeta
	unregister chan clientMeta

	rc     *pkgredis.Client
	logger *zap.Logger
	sio    *socketio.Server

	// tokenValidator authenticates dashboard connections; a nil validator
	// rejects every dashboard client.
	tokenValidator func(string) bool
}
