package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	rainBounds     float32 = 34
	rainFloor      float32 = -1.3
	rainRespawnMin float32 = 8
	rainRespawnMax float32 = 25
	rainThickness  float32 = 0.014
)

// RainDrop is one falling streak. Object is the box drawn for it and follows the drop every step.
type RainDrop struct {
	X, Y, Z float32
	Speed   float32
	Drift   float32
	Length  float32

	Object *RenderObject
}

// Position returns the centre of the streak.
func (d *RainDrop) Position() mgl32.Vec3 {
	return mgl32.Vec3{d.X, d.Y, d.Z}
}

// Size returns the box dimensions of the streak.
func (d *RainDrop) Size() mgl32.Vec3 {
	return mgl32.Vec3{rainThickness, d.Length, rainThickness}
}

// Step advances the drop by dt seconds. A drop that falls below the street respawns high above a new
// point drawn from rng.
//
// Returns:
//   - bool: true if the drop respawned
func (d *RainDrop) Step(dt float32, rng *rand.Rand) bool {
	d.Y -= d.Speed * dt
	d.X += d.Drift * dt
	respawned := false
	if d.Y < rainFloor {
		d.Y = uniform(rng, rainRespawnMin, rainRespawnMax)
		d.X = uniform(rng, -rainBounds, rainBounds)
		d.Z = uniform(rng, -rainBounds, rainBounds)
		respawned = true
	}
	if d.Object != nil {
		d.Object.SetTransform(d.Position(), d.Size())
	}
	return respawned
}
