package game

// Gameplay constants. The playfield matches the client canvas exactly.
const (
	WorldWidth  = 800.0
	WorldHeight = 600.0

	InitialRadius = 20.0
	FoodSize      = 10.0
	FoodCount     = 10
	FoodGrowth    = 2.0
)

// Palette is cycled by join order when assigning player colors.
var Palette = []string{"blue", "red", "yellow", "green", "purple", "orange"}
