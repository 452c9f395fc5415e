package game

// Player is one live avatar in the arena, keyed by its session id.
type Player struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// Food is a single edible triangle. It has no identity beyond its position
// in the food slice, and that index is only stable between two mutations.
type Food struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

// Snapshot is the full world view broadcast to clients after every mutation.
type Snapshot struct {
	Players map[string]Player `json:"players"`
	Food    []Food            `json:"food"`
}

// World is the authoritative game state: live players plus the current food
// set. It carries no lock by contract; exactly one goroutine (the hub loop)
// may touch it. Tests construct isolated instances directly.
type World struct {
	players map[string]*Player
	food    []Food
}

// NewWorld returns an empty arena with a freshly generated food set.
func NewWorld() *World {
	return &World{
		players: make(map[string]*Player),
		food:    GenerateFood(),
	}
}

// AddPlayer registers a player under its id, replacing nothing: callers
// check HasPlayer first to keep joins idempotent.
func (w *World) AddPlayer(p Player) {
	cp := p
	w.players[p.ID] = &cp
}

func (w *World) HasPlayer(id string) bool {
	_, ok := w.players[id]
	return ok
}

// Player returns a copy of the player with the given id.
func (w *World) Player(id string) (Player, bool) {
	p, ok := w.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// UpdatePlayerPosition merges a reported position into the player record,
// last write wins. Reports for unknown ids are dropped.
func (w *World) UpdatePlayerPosition(id string, x, y float64) bool {
	p, ok := w.players[id]
	if !ok {
		return false
	}
	p.X = x
	p.Y = y
	return true
}

// GrowPlayer increases the player's radius by delta.
func (w *World) GrowPlayer(id string, delta float64) bool {
	p, ok := w.players[id]
	if !ok {
		return false
	}
	p.Radius += delta
	return true
}

// RemovePlayer deletes the player and returns its final state.
func (w *World) RemovePlayer(id string) (Player, bool) {
	p, ok := w.players[id]
	if !ok {
		return Player{}, false
	}
	delete(w.players, id)
	return *p, true
}

func (w *World) PlayerCount() int {
	return len(w.players)
}

// SolePlayer returns the winner iff exactly one player remains.
func (w *World) SolePlayer() (Player, bool) {
	if len(w.players) != 1 {
		return Player{}, false
	}
	for _, p := range w.players {
		return *p, true
	}
	return Player{}, false
}

// PaletteColor is the color the next joining player receives.
func (w *World) PaletteColor() string {
	return Palette[len(w.players)%len(Palette)]
}

// RemoveFood deletes the food item at index. Indices that no longer resolve
// (already consumed, regenerated set) report false and change nothing.
func (w *World) RemoveFood(index int) bool {
	if index < 0 || index >= len(w.food) {
		return false
	}
	w.food = append(w.food[:index], w.food[index+1:]...)
	return true
}

func (w *World) ReplaceFood(food []Food) {
	w.food = food
}

// Food returns the current food set. Callers must not hold the slice across
// mutations.
func (w *World) Food() []Food {
	return w.food
}

func (w *World) FoodCount() int {
	return len(w.food)
}

// Snapshot deep-copies the world so marshalling can never observe a
// half-applied mutation.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Players: make(map[string]Player, len(w.players)),
		Food:    make([]Food, len(w.food)),
	}
	for id, p := range w.players {
		s.Players[id] = *p
	}
	copy(s.Food, w.food)
	return s
}
