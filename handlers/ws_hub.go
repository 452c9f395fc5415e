package handlers

import (
    "log"

    "github.com/gorilla/websocket"

    "github.com/circlearena/circlearena-backend/game"
    "github.com/circlearena/circlearena-backend/models"
)

// Connection represents one client's websocket session.
type Connection struct {
    ws       *websocket.Conn
    send     chan []byte
    hub      *Hub
    id       string
    username string
}

// inboundEvent is a decoded client message waiting for the hub loop.
type inboundEvent struct {
    conn *Connection
    env  models.Envelope
}

// Hub owns the World and the set of live connections. Run is the only
// goroutine that touches the World, so each event is applied to completion
// before the next one is dequeued and the handlers need no locks.
type Hub struct {
    world    *game.World
    validate bool

    connections map[*Connection]bool
    sessions    map[string]*Connection

    register   chan *Connection
    unregister chan *Connection
    events     chan inboundEvent
    quit       chan struct{}

    // id of the last session notified of victory, cleared once the arena
    // holds more than one player again. Keeps a winner from being told
    // twice when the loser's socket teardown follows its elimination.
    winner string
}

func NewHub(world *game.World, validate bool) *Hub {
    return &Hub{
        world:       world,
        validate:    validate,
        connections: make(map[*Connection]bool),
        sessions:    make(map[string]*Connection),
        register:    make(chan *Connection),
        unregister:  make(chan *Connection),
        events:      make(chan inboundEvent, 256),
        quit:        make(chan struct{}),
    }
}

func (h *Hub) Run() {
    for {
        select {
        case connection := <-h.register:
            h.addConnection(connection)
        case connection := <-h.unregister:
            h.dropConnection(connection)
        case event := <-h.events:
            h.handleEvent(event)
        case <-h.quit:
            return
        }
    }
}

func (h *Hub) Stop() {
    close(h.quit)
}

func (h *Hub) addConnection(c *Connection) {
    h.connections[c] = true
    h.sessions[c.id] = c
    log.Printf("Session %s connected (%s)", c.id, c.username)
}

// dropConnection handles a transport-level disconnect: the connection is
// forgotten and, if it had joined, its player leaves the arena. Duplicate
// drops (a connection already removed by a failed broadcast) are no-ops.
func (h *Hub) dropConnection(c *Connection) {
    if _, ok := h.connections[c]; !ok {
        return
    }
    delete(h.connections, c)
    delete(h.sessions, c.id)
    close(c.send)

    if leaving, ok := h.world.RemovePlayer(c.id); ok {
        log.Printf("Player %s left the game", leaving.Name)
        h.broadcastExcept(c, models.EventPlayerLeft, leaving.Name)
    }
    h.checkForWinner()
    h.broadcastState()
}
