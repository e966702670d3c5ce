package geometry

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// HitableList is an ordered collection of hitables scanned linearly.
// Add and Remove are for scene construction only; once rendering starts the
// list must not change.
type HitableList struct {
	items []Hitable
}

// NewHitableList creates a list holding a copy of items
func NewHitableList(items ...Hitable) *HitableList {
	list := &HitableList{items: make([]Hitable, 0, len(items))}
	list.items = append(list.items, items...)
	return list
}

// Add appends an item
func (l *HitableList) Add(item Hitable) {
	l.items = append(l.items, item)
}

// Remove deletes and returns the item at index i
func (l *HitableList) Remove(i int) Hitable {
	item := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return item
}

// At returns the item at index i
func (l *HitableList) At(i int) Hitable {
	return l.items[i]
}

// Len returns the number of items
func (l *HitableList) Len() int {
	return len(l.items)
}

// Items returns a copy of the items
func (l *HitableList) Items() []Hitable {
	items := make([]Hitable, len(l.items))
	copy(items, l.items)
	return items
}

// Hit returns the nearest hit among all items. Each accepted hit lowers the
// upper bound, so later items can only replace it with a strictly closer t.
func (l *HitableList) Hit(ray core.Ray, limits core.Range) (material.HitRecord, bool) {
	var closest material.HitRecord
	hitAnything := false

	for _, item := range l.items {
		if hit, ok := item.Hit(ray, limits); ok {
			hitAnything = true
			closest = hit
			limits = limits.WithMax(hit.T)
		}
	}

	return closest, hitAnything
}
