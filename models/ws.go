package models

import "encoding/json"

// Client -> server events.
const (
	EventNewPlayer     = "newPlayer"
	EventPlayerMove    = "playerMove"
	EventTriangleEaten = "triangleEaten"
	EventPlayerEaten   = "playerEaten"
)

// Server -> client events.
const (
	EventUpdateState          = "updateState"
	EventPlayerLeft           = "playerLeft"
	EventGameOver             = "gameOver"
	EventGameWon              = "gameWon"
	EventTrianglesRegenerated = "trianglesRegenerated"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewPlayerMessage is the join payload reported by the client.
type NewPlayerMessage struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// PlayerMoveMessage is the client's self-reported position.
type PlayerMoveMessage struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewEvent encodes an envelope carrying the given payload. A nil payload
// produces an envelope without a data field (gameOver, trianglesRegenerated).
func NewEvent(event string, data interface{}) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = b
	}
	return json.Marshal(env)
}
