package game

import "math"

func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// FoodEaten reports whether p overlaps f closely enough to consume it.
func FoodEaten(p Player, f Food) bool {
	return distance(p.X, p.Y, f.X, f.Y) < p.Radius+f.Size
}

// CheckFoodCollisions returns the indices of every food item p currently
// overlaps. Indices are only valid against the food slice passed in.
func CheckFoodCollisions(p Player, food []Food) []int {
	var eaten []int
	for i, f := range food {
		if FoodEaten(p, f) {
			eaten = append(eaten, i)
		}
	}
	return eaten
}

// CheckPlayerCollision resolves an encounter between two players. The pair
// collides when their circles overlap; the strictly larger player absorbs
// the smaller one. Equal radii never absorb, both survive.
func CheckPlayerCollision(a, b Player) (winner, loser Player, absorbed bool) {
	if distance(a.X, a.Y, b.X, b.Y) >= a.Radius+b.Radius {
		return Player{}, Player{}, false
	}
	switch {
	case a.Radius > b.Radius:
		return a, b, true
	case b.Radius > a.Radius:
		return b, a, true
	default:
		return Player{}, Player{}, false
	}
}

// AbsorbGain is the radius the winner gains for absorbing loser, captured
// from the loser's state before removal.
func AbsorbGain(loser Player) float64 {
	return loser.Radius / 2
}
