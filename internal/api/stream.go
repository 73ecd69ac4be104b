package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	feedBuffer       = 16
	feedWriteTimeout = 10 * time.Second
)

// wsClient owns a websocket connection and the queue its writer drains.
type wsClient struct {
	conn *websocket.Conn
	send chan AnalysisEvent
	done chan struct{}
	once sync.Once
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn: conn,
		send: make(chan AnalysisEvent, feedBuffer),
		done: make(chan struct{}),
	}
}

// enqueue hands the event to the writer without blocking. It reports false
// when the queue is full.
func (c *wsClient) enqueue(event AnalysisEvent) bool {
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// writeLoop is the only goroutine that writes to the connection.
func (c *wsClient) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case event := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := c.conn.WriteJSON(event); err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// AnalysisNotifier keeps track of feed subscribers and broadcasts analysis events.
type AnalysisNotifier struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	last    *AnalysisEvent
}

// NewAnalysisNotifier constructs a notifier instance.
func NewAnalysisNotifier() *AnalysisNotifier {
	return &AnalysisNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection, starts its writer and queues the
// most recent event for replay.
func (n *AnalysisNotifier) Register(conn *websocket.Conn) *wsClient {
	client := newWSClient(conn)
	go client.writeLoop()

	n.mu.Lock()
	defer n.mu.Unlock()
	n.clients[client] = struct{}{}
	if n.last != nil {
		client.enqueue(*n.last)
	}
	return client
}

// Unregister removes the client and closes its socket.
func (n *AnalysisNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	client.close()
}

// Broadcast stamps the event and queues it for every subscriber. It never
// writes to a socket itself; subscribers whose queue is full are dropped.
func (n *AnalysisNotifier) Broadcast(event AnalysisEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	defer n.mu.Unlock()
	snapshot := event
	n.last = &snapshot

	for client := range n.clients {
		if !client.enqueue(event) {
			delete(n.clients, client)
			client.close()
		}
	}
}

// Last returns a copy of the most recently broadcast event.
func (n *AnalysisNotifier) Last() *AnalysisEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil {
		return nil
	}
	last := *n.last
	return &last
}

// Subscribers reports how many clients are attached.
func (n *AnalysisNotifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients)
}
