// Package scene defines the placed-element model of a floorplan workspace.
// A scene is a flat collection of axis-aligned primitives (walls, boxes,
// doors, windows, shelves) resting on the horizontal ground plane.
package scene
