// Package patterns provides the pointer path used for synthetic interaction.
package patterns

import (
	"math"
)

// Path defaults. The circle sits near the top right of a
// 1920-wide primary display.
const (
	DefaultCenterX = 1200
	DefaultCenterY = 250
	DefaultRadius  = 100

	// DefaultStep is the angular advance per synthetic tick, in degrees.
	// A full revolution takes 360/DefaultStep ticks.
	DefaultStep = 36

	fullTurn = 360
)

// Point is a screen position in pixels.
type Point struct {
	X int
	Y int
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// CirclePath walks a fixed circle in constant angular steps.
// It is not safe for concurrent use; the engine owns it on a single goroutine.
type CirclePath struct {
	center Point
	radius int
	step   int
	angle  int
}

// NewCirclePath creates a path starting at angle 0.
// step is normalised into [0, 360).
func NewCirclePath(center Point, radius, step int) *CirclePath {
	return &CirclePath{
		center: center,
		radius: radius,
		step:   normalize(step),
	}
}

// Angle returns the current angle in degrees, always in [0, 360).
func (c *CirclePath) Angle() int {
	return c.angle
}

// Step returns the angular step in degrees.
func (c *CirclePath) Step() int {
	return c.step
}

// Center returns the circle center.
func (c *CirclePath) Center() Point {
	return c.center
}

// Radius returns the circle radius in pixels.
func (c *CirclePath) Radius() int {
	return c.radius
}

// Current returns the point at the current angle.
func (c *CirclePath) Current() Point {
	return c.PointAt(c.angle)
}

// PointAt returns the point on the circle at the given angle in degrees.
func (c *CirclePath) PointAt(angle int) Point {
	rad := float64(angle) * math.Pi / 180
	return Point{
		X: c.center.X + int(math.Round(float64(c.radius)*math.Cos(rad))),
		Y: c.center.Y + int(math.Round(float64(c.radius)*math.Sin(rad))),
	}
}

// Advance moves the path one step forward, wrapping modulo 360.
func (c *CirclePath) Advance() {
	c.angle = normalize(c.angle + c.step)
}

// TicksPerRevolution returns how many steps bring the path back to its
// starting angle.
func (c *CirclePath) TicksPerRevolution() int {
	if c.step == 0 {
		return 1
	}
	return fullTurn / gcd(fullTurn, c.step)
}

func normalize(angle int) int {
	angle %= fullTurn
	if angle < 0 {
		angle += fullTurn
	}
	return angle
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
