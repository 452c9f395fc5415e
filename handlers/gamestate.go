package handlers

import (
    "log"

    "github.com/circlearena/circlearena-backend/models"
)

// broadcastState pushes the full world snapshot to every connection. Every
// mutating event ends here; there is no delta compression.
func (h *Hub) broadcastState() {
    h.broadcast(models.EventUpdateState, h.world.Snapshot())
}

func (h *Hub) broadcast(event string, data interface{}) {
    b, err := models.NewEvent(event, data)
    if err != nil {
        log.Printf("Error encoding %s event: %v", event, err)
        return
    }
    var failed []*Connection
    for connection := range h.connections {
        if !h.send(connection, b) {
            failed = append(failed, connection)
        }
    }
    h.dropFailed(failed)
}

func (h *Hub) broadcastExcept(skip *Connection, event string, data interface{}) {
    b, err := models.NewEvent(event, data)
    if err != nil {
        log.Printf("Error encoding %s event: %v", event, err)
        return
    }
    var failed []*Connection
    for connection := range h.connections {
        if connection == skip {
            continue
        }
        if !h.send(connection, b) {
            failed = append(failed, connection)
        }
    }
    h.dropFailed(failed)
}

func (h *Hub) unicast(sessionID string, event string, data interface{}) {
    connection, ok := h.sessions[sessionID]
    if !ok {
        return
    }
    b, err := models.NewEvent(event, data)
    if err != nil {
        log.Printf("Error encoding %s event: %v", event, err)
        return
    }
    if !h.send(connection, b) {
        h.dropConnection(connection)
    }
}

// send never blocks the hub loop. It reports false for a connection whose
// buffer is full so the caller can tear it down like any other disconnect.
func (h *Hub) send(c *Connection, b []byte) bool {
    select {
    case c.send <- b:
        return true
    default:
        return false
    }
}

// dropFailed tears down connections that could not keep up with a fan-out.
// Teardown happens after the fan-out loop so each one gets the full
// disconnect treatment: its player leaves the World, the departure is
// announced and the winner check runs. Each drop shrinks the connection
// set, so the nested broadcasts terminate.
func (h *Hub) dropFailed(failed []*Connection) {
    for _, connection := range failed {
        log.Printf("Session %s dropped: send buffer full", connection.id)
        h.dropConnection(connection)
    }
}

// checkForWinner notifies the sole remaining player of victory. The winner
// guard makes the notification fire exactly once per last-player-standing
// transition, however many teardown events follow.
func (h *Hub) checkForWinner() {
    winner, ok := h.world.SolePlayer()
    if !ok {
        return
    }
    if h.winner == winner.ID {
        return
    }
    h.winner = winner.ID
    log.Printf("The game was won by: %s", winner.Name)
    h.unicast(winner.ID, models.EventGameWon, winner.Name)
}
