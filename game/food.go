package game

import "math/rand"

// GenerateFood returns a fresh food set: FoodCount triangles at random
// positions inside the world bounds. Called once at world creation and again
// whenever the set is eaten empty.
func GenerateFood() []Food {
	food := make([]Food, 0, FoodCount)
	for i := 0; i < FoodCount; i++ {
		food = append(food, Food{
			X:    rand.Float64() * WorldWidth,
			Y:    rand.Float64() * WorldHeight,
			Size: FoodSize,
		})
	}
	return food
}
