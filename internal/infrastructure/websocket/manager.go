package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"marketly/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 64
)

// Client is one WebSocket connection. A user may hold several.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	mu    sync.Mutex
	rooms map[string]struct{}
	// per-connection state owned by event handlers (debouncers, subscriptions)
	values map[string]interface{}
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
		rooms:  make(map[string]struct{}),
		values: make(map[string]interface{}),
	}
}

// Value returns per-connection state stored under key, creating it with init
// on first use.
func (c *Client) Value(key string, init func() interface{}) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.values[key]
	if !ok {
		v = init()
		c.values[key] = v
	}
	return v
}

// Values returns a snapshot of all per-connection state.
func (c *Client) Values() []interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]interface{}, 0, len(c.values))
	for _, v := range c.values {
		out = append(out, v)
	}
	return out
}

// Manager tracks connections per user and per room (conversation).
type Manager struct {
	clients    map[string]map[*Client]struct{}
	rooms      map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex

	// done is closed once the registration loop has exited.
	done     chan struct{}
	doneOnce sync.Once

	handlers map[string]HandlerFunc

	// OnUserOnline fires when a user's first connection registers;
	// OnUserOffline when the last one goes away.
	OnUserOnline  func(userID string)
	OnUserOffline func(userID string)
	// OnClientClosed fires for every unregistered connection.
	OnClientClosed func(c *Client)
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		handlers:   make(map[string]HandlerFunc),
	}
}

// Start runs the registration loop until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				if first := m.add(client); first && m.OnUserOnline != nil {
					m.OnUserOnline(client.UserID)
				}
				logger.Debug("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				removed, last := m.remove(client)
				if !removed {
					continue
				}
				if m.OnClientClosed != nil {
					m.OnClientClosed(client)
				}
				if last && m.OnUserOffline != nil {
					m.OnUserOffline(client.UserID)
				}
				logger.Debug("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				m.doneOnce.Do(func() { close(m.done) })
				m.closeAll()
				return
			}
		}
	}()
}

// RegisterClient hands c to the registration loop. It reports false when the
// manager has shut down and c was not registered.
func (m *Manager) RegisterClient(c *Client) bool {
	select {
	case m.Register <- c:
		return true
	case <-m.done:
		return false
	}
}

// UnregisterClient hands c to the registration loop, or returns at once when
// the manager has shut down.
func (m *Manager) UnregisterClient(c *Client) {
	select {
	case m.Unregister <- c:
	case <-m.done:
	}
}

func (m *Manager) add(c *Client) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	set, ok := m.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		m.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	return len(set) == 1
}

func (m *Manager) remove(c *Client) (removed, last bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	set, ok := m.clients[c.UserID]
	if !ok {
		return false, false
	}
	if _, ok := set[c]; !ok {
		return false, false
	}

	delete(set, c)
	close(c.Send)

	c.mu.Lock()
	for room := range c.rooms {
		m.leaveLocked(room, c)
	}
	c.rooms = map[string]struct{}{}
	c.mu.Unlock()

	if len(set) == 0 {
		delete(m.clients, c.UserID)
		return true, true
	}
	return true, false
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for userID, set := range m.clients {
		for c := range set {
			close(c.Send)
		}
		delete(m.clients, userID)
	}
	m.rooms = make(map[string]map[*Client]struct{})
}

// Join subscribes the client to room broadcasts.
func (m *Manager) Join(room string, c *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	set, ok := m.rooms[room]
	if !ok {
		set = make(map[*Client]struct{})
		m.rooms[room] = set
	}
	set[c] = struct{}{}

	c.mu.Lock()
	c.rooms[room] = struct{}{}
	c.mu.Unlock()
}

func (m *Manager) Leave(room string, c *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.leaveLocked(room, c)
	c.mu.Lock()
	delete(c.rooms, room)
	c.mu.Unlock()
}

func (m *Manager) leaveLocked(room string, c *Client) {
	set, ok := m.rooms[room]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(m.rooms, room)
	}
}

// SendToUser delivers to every connection of the user.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for c := range m.clients[userID] {
		m.deliver(c, message)
	}
}

// SendToRoom delivers to every connection that joined room.
func (m *Manager) SendToRoom(room string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for c := range m.rooms[room] {
		m.deliver(c, message)
	}
}

// SendToClient delivers to a single connection if it is still registered.
func (m *Manager) SendToClient(c *Client, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if _, ok := m.clients[c.UserID][c]; ok {
		m.deliver(c, message)
	}
}

// deliver must be called with the read lock held so Send is not closed underneath.
func (m *Manager) deliver(c *Client, message []byte) {
	select {
	case c.Send <- message:
	default:
		logger.Warn("Dropping message for slow client %s", c.UserID)
	}
}

// IsOnline reports whether the user has at least one connection.
func (m *Manager) IsOnline(userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID]) > 0
}

// OnlineCount is the number of users with at least one connection.
func (m *Manager) OnlineCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.UnregisterClient(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error for %s: %v", c.UserID, err)
			}
			return
		}

		m.HandleClientMessage(c, message)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket write error for %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
