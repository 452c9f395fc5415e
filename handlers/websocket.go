package handlers

import (
    "encoding/json"
    "log"
    "net/http"

    "github.com/google/uuid"
    "github.com/gorilla/mux"
    "github.com/gorilla/websocket"

    "github.com/circlearena/circlearena-backend/models"
    "github.com/circlearena/circlearena-backend/responses"
    "github.com/circlearena/circlearena-backend/utils"
)

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
    CheckOrigin:     func(r *http.Request) bool { return true },
}

// WsHandler upgrades an authenticated request and hands the connection to
// the hub. The session id minted here is the player's identity for as long
// as the socket lives; it is never reused while the session is up.
func (h *Handler) WsHandler(w http.ResponseWriter, r *http.Request) {
    vars := mux.Vars(r)
    tokenStr := vars["token"]

    claims, err := h.ValidateToken(tokenStr)
    if err != nil {
        log.Println(err)
        utils.HandleError(w, responses.UnauthorizedError{Msg: "Error validating token."})
        return
    }

    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        log.Println("Upgrade error:", err)
        return
    }

    connection := &Connection{
        ws:       conn,
        send:     make(chan []byte, 256),
        hub:      h.hub,
        id:       uuid.New().String(),
        username: claims.Username,
    }

    h.hub.register <- connection

    go connection.writePump()
    connection.readPump()
}

// readPump forwards decoded envelopes to the hub until the socket dies; any
// read error is treated as a disconnect. Malformed frames are skipped.
func (c *Connection) readPump() {
    defer func() {
        c.hub.unregister <- c
        c.ws.Close()
        log.Printf("Session %s disconnected", c.id)
    }()

    for {
        _, message, err := c.ws.ReadMessage()
        if err != nil {
            log.Printf("Error reading message from session %s: %v", c.id, err)
            break
        }
        var env models.Envelope
        if err := json.Unmarshal(message, &env); err != nil {
            log.Printf("Error unmarshalling message from session %s: %v", c.id, err)
            continue
        }
        c.hub.events <- inboundEvent{conn: c, env: env}
    }
}

func (c *Connection) writePump() {
    defer c.ws.Close()

    for message := range c.send {
        if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
            log.Printf("error writing message: %v", err)
            break
        }
    }
}
