package geometry

import "github.com/df07/go-sphere-tracer/pkg/core"

// ShapeList is an ordered collection of shapes resolved by linear scan.
// It is itself a Shape, so lists can nest.
type ShapeList struct {
	Shapes []core.Shape
}

// NewShapeList creates a list holding the given shapes
func NewShapeList(shapes ...core.Shape) *ShapeList {
	return &ShapeList{Shapes: shapes}
}

// Add appends shapes to the list
func (l *ShapeList) Add(shapes ...core.Shape) {
	l.Shapes = append(l.Shapes, shapes...)
}

// Len returns the number of shapes in the list
func (l *ShapeList) Len() int {
	return len(l.Shapes)
}

// Hit returns the nearest hit across all shapes. Each accepted hit becomes the
// upper bound for the shapes after it, so one pass finds the global minimum.
func (l *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
