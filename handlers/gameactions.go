package handlers

import (
    "encoding/json"
    "log"

    "github.com/circlearena/circlearena-backend/game"
    "github.com/circlearena/circlearena-backend/models"
)

// handleEvent routes one decoded client event. Unknown events and payloads
// that fail to decode are dropped; gameplay never surfaces errors to the
// client.
func (h *Hub) handleEvent(event inboundEvent) {
    switch event.env.Event {
    case models.EventNewPlayer:
        var msg models.NewPlayerMessage
        if err := json.Unmarshal(event.env.Data, &msg); err != nil {
            log.Printf("Error unmarshalling newPlayer message: %v", err)
            return
        }
        h.handleNewPlayer(event.conn, msg)
    case models.EventPlayerMove:
        var msg models.PlayerMoveMessage
        if err := json.Unmarshal(event.env.Data, &msg); err != nil {
            log.Printf("Error unmarshalling playerMove message: %v", err)
            return
        }
        h.handlePlayerMove(event.conn, msg)
    case models.EventTriangleEaten:
        var index int
        if err := json.Unmarshal(event.env.Data, &index); err != nil {
            log.Printf("Error unmarshalling triangleEaten message: %v", err)
            return
        }
        h.handleTriangleEaten(event.conn, index)
    case models.EventPlayerEaten:
        var targetID string
        if err := json.Unmarshal(event.env.Data, &targetID); err != nil {
            log.Printf("Error unmarshalling playerEaten message: %v", err)
            return
        }
        h.handlePlayerEaten(event.conn, targetID)
    default:
        log.Printf("Unhandled game event: %s", event.env.Event)
    }
}

// handleNewPlayer admits the session into the arena. A session that already
// has a player keeps it; duplicate joins are dropped silently.
func (h *Hub) handleNewPlayer(c *Connection, msg models.NewPlayerMessage) {
    if h.world.HasPlayer(c.id) {
        return
    }

    name := msg.Name
    if name == "" {
        name = c.username
    }
    radius := msg.Radius
    if radius <= 0 {
        radius = game.InitialRadius
    }

    color := h.world.PaletteColor()
    h.world.AddPlayer(game.Player{
        ID:     c.id,
        Name:   name,
        X:      msg.X,
        Y:      msg.Y,
        Radius: radius,
        Color:  color,
    })
    if h.world.PlayerCount() > 1 {
        h.winner = ""
    }

    log.Printf("Player %s joined with color %s", name, color)
    h.broadcastState()
}

// handlePlayerMove merges the client's self-reported position, last write
// wins. Positions are not re-validated server-side.
func (h *Hub) handlePlayerMove(c *Connection, msg models.PlayerMoveMessage) {
    if !h.world.UpdatePlayerPosition(c.id, msg.X, msg.Y) {
        return
    }
    h.broadcastState()
}

// handleTriangleEaten applies a client-reported food consumption. The index
// is re-validated against the current food set, so a report that lost the
// race against another eater is a no-op.
func (h *Hub) handleTriangleEaten(c *Connection, index int) {
    player, ok := h.world.Player(c.id)
    if !ok {
        return
    }
    if h.validate && !h.foodInReach(player, index) {
        log.Printf("Rejected triangleEaten from %s: food %d out of reach", player.Name, index)
        return
    }
    if !h.world.RemoveFood(index) {
        return
    }
    h.world.GrowPlayer(c.id, game.FoodGrowth)
    log.Printf("Player %s ate a triangle!", player.Name)

    if h.world.FoodCount() == 0 {
        h.world.ReplaceFood(game.GenerateFood())
        log.Println("Triangles regenerated!")
        h.broadcast(models.EventTrianglesRegenerated, nil)
    }
    h.broadcastState()
}

func (h *Hub) foodInReach(p game.Player, index int) bool {
    food := h.world.Food()
    if index < 0 || index >= len(food) {
        return false
    }
    return game.FoodEaten(p, food[index])
}

// handlePlayerEaten applies a client-reported absorption of targetID by the
// acting session. The eliminated session is told the game is over before its
// player record disappears; if exactly one player is left standing, that
// session is told it won.
func (h *Hub) handlePlayerEaten(c *Connection, targetID string) {
    actor, ok := h.world.Player(c.id)
    if !ok {
        return
    }
    target, ok := h.world.Player(targetID)
    if !ok {
        return
    }
    if h.validate {
        winner, _, absorbed := game.CheckPlayerCollision(actor, target)
        if !absorbed || winner.ID != actor.ID {
            log.Printf("Rejected playerEaten from %s: cannot absorb %s", actor.Name, target.Name)
            return
        }
    }

    h.world.GrowPlayer(c.id, game.AbsorbGain(target))
    log.Printf("%s ate %s!", actor.Name, target.Name)

    h.unicast(targetID, models.EventGameOver, nil)
    h.world.RemovePlayer(targetID)

    h.checkForWinner()
    h.broadcastState()
}
