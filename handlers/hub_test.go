package handlers

import (
	"encoding/json"
	"testing"

	"github.com/circlearena/circlearena-backend/game"
	"github.com/circlearena/circlearena-backend/models"
)

// The hub's Run loop only sequences calls to addConnection, dropConnection
// and handleEvent, so these tests drive those directly and read the framed
// events out of each connection's send buffer.

func newTestHub() *Hub {
	return NewHub(game.NewWorld(), false)
}

func newTestConn(id, username string) *Connection {
	return &Connection{id: id, username: username, send: make(chan []byte, 64)}
}

func join(t *testing.T, h *Hub, c *Connection, name string, x, y float64) {
	t.Helper()
	h.addConnection(c)
	h.handleNewPlayer(c, models.NewPlayerMessage{Name: name, X: x, Y: y, Radius: game.InitialRadius})
}

// drainEvents empties the connection's buffer and returns the decoded
// envelopes. Closed channels drain cleanly.
func drainEvents(t *testing.T, c *Connection) []models.Envelope {
	t.Helper()
	var events []models.Envelope
	for {
		select {
		case b, ok := <-c.send:
			if !ok {
				return events
			}
			var env models.Envelope
			if err := json.Unmarshal(b, &env); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			events = append(events, env)
		default:
			return events
		}
	}
}

func lastSnapshot(t *testing.T, events []models.Envelope) game.Snapshot {
	t.Helper()
	var snap game.Snapshot
	found := false
	for _, env := range events {
		if env.Event != models.EventUpdateState {
			continue
		}
		snap = game.Snapshot{}
		if err := json.Unmarshal(env.Data, &snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		found = true
	}
	if !found {
		t.Fatalf("no updateState event among %d events", len(events))
	}
	return snap
}

func countEvents(events []models.Envelope, name string) int {
	n := 0
	for _, env := range events {
		if env.Event == name {
			n++
		}
	}
	return n
}

func TestNewPlayerBroadcastsState(t *testing.T) {
	h := newTestHub()
	c := newTestConn("s1", "alice")
	join(t, h, c, "alice", 100, 100)

	snap := lastSnapshot(t, drainEvents(t, c))
	p, ok := snap.Players["s1"]
	if !ok {
		t.Fatalf("snapshot missing joined player, got %+v", snap.Players)
	}
	if p.Name != "alice" || p.Color != "blue" || p.Radius != game.InitialRadius {
		t.Fatalf("joined player = %+v, want name alice, color blue, radius %f", p, float64(game.InitialRadius))
	}
	if len(snap.Food) != game.FoodCount {
		t.Fatalf("snapshot food count = %d, want %d", len(snap.Food), game.FoodCount)
	}
}

func TestJoinOrderAssignsPaletteColors(t *testing.T) {
	h := newTestHub()
	c1 := newTestConn("s1", "alice")
	c2 := newTestConn("s2", "bob")
	c3 := newTestConn("s3", "carol")
	join(t, h, c1, "alice", 100, 100)
	join(t, h, c2, "bob", 200, 200)
	join(t, h, c3, "carol", 300, 300)

	snap := lastSnapshot(t, drainEvents(t, c3))
	want := map[string]string{"s1": "blue", "s2": "red", "s3": "yellow"}
	for id, color := range want {
		if snap.Players[id].Color != color {
			t.Fatalf("player %s color = %q, want %q", id, snap.Players[id].Color, color)
		}
	}
}

func TestDuplicateNewPlayerIgnored(t *testing.T) {
	h := newTestHub()
	c := newTestConn("s1", "alice")
	join(t, h, c, "alice", 100, 100)
	h.handleNewPlayer(c, models.NewPlayerMessage{Name: "impostor", X: 1, Y: 1, Radius: 99})

	snap := lastSnapshot(t, drainEvents(t, c))
	if len(snap.Players) != 1 {
		t.Fatalf("duplicate join produced %d players, want 1", len(snap.Players))
	}
	if snap.Players["s1"].Name != "alice" {
		t.Fatalf("duplicate join replaced the original player: %+v", snap.Players["s1"])
	}
}

func TestPlayerMoveUpdatesPosition(t *testing.T) {
	h := newTestHub()
	c := newTestConn("s1", "alice")
	join(t, h, c, "alice", 100, 100)
	drainEvents(t, c)

	h.handlePlayerMove(c, models.PlayerMoveMessage{X: 300, Y: 250})

	snap := lastSnapshot(t, drainEvents(t, c))
	p := snap.Players["s1"]
	if p.X != 300 || p.Y != 250 {
		t.Fatalf("position after move = (%f,%f), want (300,250)", p.X, p.Y)
	}
}

func TestPlayerMoveBeforeJoinIsNoOp(t *testing.T) {
	h := newTestHub()
	c := newTestConn("s1", "alice")
	h.addConnection(c)

	h.handlePlayerMove(c, models.PlayerMoveMessage{X: 300, Y: 250})

	if events := drainEvents(t, c); len(events) != 0 {
		t.Fatalf("move before join must not broadcast, got %d events", len(events))
	}
}

func TestTriangleEatenGrowsPlayerAndRemovesFood(t *testing.T) {
	h := newTestHub()
	c := newTestConn("s1", "alice")
	join(t, h, c, "alice", 100, 100)
	h.world.ReplaceFood([]game.Food{
		{X: 105, Y: 100, Size: game.FoodSize},
		{X: 700, Y: 500, Size: game.FoodSize},
	})
	drainEvents(t, c)

	h.handleTriangleEaten(c, 0)

	snap := lastSnapshot(t, drainEvents(t, c))
	if r := snap.Players["s1"].Radius; r != game.InitialRadius+game.FoodGrowth {
		t.Fatalf("radius after eating = %f, want %f", r, game.InitialRadius+game.FoodGrowth)
	}
	if len(snap.Food) != 1 {
		t.Fatalf("food count after eating = %d, want 1", len(snap.Food))
	}
	if snap.Food[0].X != 700 {
		t.Fatalf("wrong food item removed, remaining %+v", snap.Food[0])
	}
}

func TestTriangleEatenStaleIndexIsNoOp(t *testing.T) {
	h := newTestHub()
	c := newTestConn("s1", "alice")
	join(t, h, c, "alice", 100, 100)
	drainEvents(t, c)

	h.handleTriangleEaten(c, 99)

	if events := drainEvents(t, c); len(events) != 0 {
		t.Fatalf("stale food index must not broadcast, got %d events", len(events))
	}
}

func TestFoodRegeneratedWhenDepleted(t *testing.T) {
	h := newTestHub()
	c := newTestConn("s1", "alice")
	join(t, h, c, "alice", 100, 100)
	h.world.ReplaceFood([]game.Food{{X: 105, Y: 100, Size: game.FoodSize}})
	drainEvents(t, c)

	h.handleTriangleEaten(c, 0)

	events := drainEvents(t, c)
	if countEvents(events, models.EventTrianglesRegenerated) != 1 {
		t.Fatalf("expected one trianglesRegenerated event, got %d", countEvents(events, models.EventTrianglesRegenerated))
	}
	snap := lastSnapshot(t, events)
	if len(snap.Food) != game.FoodCount {
		t.Fatalf("food count after regeneration = %d, want %d", len(snap.Food), game.FoodCount)
	}
}

func TestPlayerEatenAbsorbsAndNotifies(t *testing.T) {
	h := newTestHub()
	c1 := newTestConn("s1", "alice")
	c2 := newTestConn("s2", "bob")
	join(t, h, c1, "alice", 100, 100)
	join(t, h, c2, "bob", 110, 100)
	h.world.GrowPlayer("s1", 10) // alice r30, bob r20
	drainEvents(t, c1)
	drainEvents(t, c2)

	h.handlePlayerEaten(c1, "s2")

	bobEvents := drainEvents(t, c2)
	if countEvents(bobEvents, models.EventGameOver) != 1 {
		t.Fatalf("eliminated player got %d gameOver events, want 1", countEvents(bobEvents, models.EventGameOver))
	}

	aliceEvents := drainEvents(t, c1)
	if countEvents(aliceEvents, models.EventGameWon) != 1 {
		t.Fatalf("sole survivor got %d gameWon events, want 1", countEvents(aliceEvents, models.EventGameWon))
	}
	var winnerName string
	for _, env := range aliceEvents {
		if env.Event == models.EventGameWon {
			if err := json.Unmarshal(env.Data, &winnerName); err != nil {
				t.Fatalf("decode gameWon payload: %v", err)
			}
		}
	}
	if winnerName != "alice" {
		t.Fatalf("gameWon payload = %q, want the winner's own name", winnerName)
	}

	snap := lastSnapshot(t, aliceEvents)
	if len(snap.Players) != 1 {
		t.Fatalf("players after elimination = %d, want 1", len(snap.Players))
	}
	if r := snap.Players["s1"].Radius; r != 40 {
		t.Fatalf("winner radius = %f, want 40 (30 + 20/2)", r)
	}
}

func TestPlayerEatenStaleTargetIsNoOp(t *testing.T) {
	h := newTestHub()
	c := newTestConn("s1", "alice")
	join(t, h, c, "alice", 100, 100)
	drainEvents(t, c)

	h.handlePlayerEaten(c, "ghost")

	if events := drainEvents(t, c); len(events) != 0 {
		t.Fatalf("eating an unknown target must not broadcast, got %d events", len(events))
	}
}

func TestWinnerNotifiedOncePerTransition(t *testing.T) {
	h := newTestHub()
	c1 := newTestConn("s1", "alice")
	c2 := newTestConn("s2", "bob")
	join(t, h, c1, "alice", 100, 100)
	join(t, h, c2, "bob", 110, 100)
	h.world.GrowPlayer("s1", 10)
	drainEvents(t, c1)
	drainEvents(t, c2)

	// Elimination makes alice the sole survivor; bob's socket teardown
	// follows shortly after, as it does in production.
	h.handlePlayerEaten(c1, "s2")
	h.dropConnection(c2)

	events := drainEvents(t, c1)
	if n := countEvents(events, models.EventGameWon); n != 1 {
		t.Fatalf("winner received %d gameWon events across elimination and teardown, want 1", n)
	}
}

func TestDisconnectBroadcastsPlayerLeft(t *testing.T) {
	h := newTestHub()
	c1 := newTestConn("s1", "alice")
	c2 := newTestConn("s2", "bob")
	c3 := newTestConn("s3", "carol")
	join(t, h, c1, "alice", 100, 100)
	join(t, h, c2, "bob", 200, 200)
	join(t, h, c3, "carol", 300, 300)
	drainEvents(t, c1)
	drainEvents(t, c2)
	drainEvents(t, c3)

	h.dropConnection(c2)

	for _, c := range []*Connection{c1, c3} {
		events := drainEvents(t, c)
		if countEvents(events, models.EventPlayerLeft) != 1 {
			t.Fatalf("%s got %d playerLeft events, want 1", c.username, countEvents(events, models.EventPlayerLeft))
		}
		var name string
		for _, env := range events {
			if env.Event == models.EventPlayerLeft {
				if err := json.Unmarshal(env.Data, &name); err != nil {
					t.Fatalf("decode playerLeft payload: %v", err)
				}
			}
		}
		if name != "bob" {
			t.Fatalf("playerLeft payload = %q, want bob", name)
		}
		snap := lastSnapshot(t, events)
		if len(snap.Players) != 2 {
			t.Fatalf("players after disconnect = %d, want 2", len(snap.Players))
		}
	}

	if countEvents(drainEvents(t, c2), models.EventPlayerLeft) != 0 {
		t.Fatalf("the departing connection must not receive its own playerLeft")
	}
}

func TestFullSendBufferDropsPlayerFromWorld(t *testing.T) {
	h := newTestHub()
	bob := newTestConn("s2", "bob")
	join(t, h, bob, "bob", 200, 200)
	drainEvents(t, bob)

	// An unbuffered channel with no reader: the first fan-out to this
	// connection fails, which must tear the whole session down.
	slow := &Connection{id: "s1", username: "alice", send: make(chan []byte)}
	h.addConnection(slow)
	h.handleNewPlayer(slow, models.NewPlayerMessage{Name: "alice", X: 100, Y: 100, Radius: game.InitialRadius})

	if h.world.HasPlayer("s1") {
		t.Fatalf("player of a dropped connection still in world")
	}
	if h.world.PlayerCount() != 1 {
		t.Fatalf("players after drop = %d, want 1", h.world.PlayerCount())
	}

	// The transport-level unregister that follows must be a clean no-op.
	h.dropConnection(slow)

	events := drainEvents(t, bob)
	if n := countEvents(events, models.EventPlayerLeft); n != 1 {
		t.Fatalf("survivor got %d playerLeft events, want 1", n)
	}
	var name string
	for _, env := range events {
		if env.Event == models.EventPlayerLeft {
			if err := json.Unmarshal(env.Data, &name); err != nil {
				t.Fatalf("decode playerLeft payload: %v", err)
			}
		}
	}
	if name != "alice" {
		t.Fatalf("playerLeft payload = %q, want alice", name)
	}
	if n := countEvents(events, models.EventGameWon); n != 1 {
		t.Fatalf("survivor got %d gameWon events, want 1", n)
	}
	snap := lastSnapshot(t, events)
	if len(snap.Players) != 1 {
		t.Fatalf("snapshot after drop has %d players, want 1", len(snap.Players))
	}
	if _, ghost := snap.Players["s1"]; ghost {
		t.Fatalf("snapshot still contains the dropped player")
	}
}

func TestDisconnectLeavesWinnerStanding(t *testing.T) {
	h := newTestHub()
	c1 := newTestConn("s1", "alice")
	c2 := newTestConn("s2", "bob")
	join(t, h, c1, "alice", 100, 100)
	join(t, h, c2, "bob", 200, 200)
	drainEvents(t, c1)

	h.dropConnection(c2)

	events := drainEvents(t, c1)
	if countEvents(events, models.EventGameWon) != 1 {
		t.Fatalf("expected the remaining player to be notified of victory")
	}
}

func TestValidateModeRejectsOutOfReachFood(t *testing.T) {
	h := NewHub(game.NewWorld(), true)
	c := newTestConn("s1", "alice")
	join(t, h, c, "alice", 100, 100)
	h.world.ReplaceFood([]game.Food{{X: 700, Y: 500, Size: game.FoodSize}})
	drainEvents(t, c)

	h.handleTriangleEaten(c, 0)

	if events := drainEvents(t, c); len(events) != 0 {
		t.Fatalf("out-of-reach eat must be rejected in validate mode")
	}
	if h.world.FoodCount() != 1 {
		t.Fatalf("rejected eat still removed food")
	}
}

func TestValidateModeRejectsSmallerEater(t *testing.T) {
	h := NewHub(game.NewWorld(), true)
	c1 := newTestConn("s1", "alice")
	c2 := newTestConn("s2", "bob")
	join(t, h, c1, "alice", 100, 100)
	join(t, h, c2, "bob", 110, 100)
	h.world.GrowPlayer("s2", 10) // bob r30, alice r20
	drainEvents(t, c1)
	drainEvents(t, c2)

	h.handlePlayerEaten(c1, "s2")

	if events := drainEvents(t, c2); countEvents(events, models.EventGameOver) != 0 {
		t.Fatalf("smaller player must not absorb a larger one in validate mode")
	}
	if h.world.PlayerCount() != 2 {
		t.Fatalf("rejected absorption removed a player")
	}
}
