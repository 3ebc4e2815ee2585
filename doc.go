// Package treeview renders large node diagrams, such as passive skill trees,
// inside a pannable, zoomable viewport.
//
// The heart of the package is [Controller]: it turns raw pointer, touch, and
// wheel input into a clamped camera transform (center + zoom) and projects it
// into the visible content rectangle, which it pushes to a [Surface].
//
// # Quick start
//
//	ctrl, err := treeview.NewController(treeview.DefaultConfig(),
//		treeview.SurfaceFunc(func(r treeview.Rect) {
//			svg.SetAttribute("viewBox", r.ViewBox())
//		}))
//	if err != nil {
//		return err
//	}
//	ctrl.Handle(treeview.Resize{Width: 1280, Height: 720})
//	ctrl.Handle(treeview.ContactStart{ID: 1, Pos: treeview.Vec2{X: 10, Y: 10}})
//	ctrl.Handle(treeview.ContactMove{ID: 1, Pos: treeview.Vec2{X: 40, Y: 25}})
//
// # Gestures
//
// One active contact pans. Two or more pinch: the distance between the two
// oldest contacts drives the zoom level, always about the viewport center.
// Ending any contact forgets the last pinch sample, so the next pinch frame
// only records a new baseline. Wheel events zoom through the same
// [Config.ZoomFactor]; wheel events with modifier keys held are not handled.
//
// # Modes
//
// In [ModeScreenRelative] content space is device pixels and the visible
// extent follows the surface size. In [ModeContentRelative] content space has
// a fixed [Config.ContentExtent] and pointer deltas are rescaled so panning
// tracks the finger 1:1.
//
// # Hosts
//
// Sub-packages connect the controller to real surfaces: ebitenhost (desktop
// window), live (browser over WebSocket), tui (terminal), and snapshot (PNG).
// Diagram data and highlight rules live in the diagram and highlight
// packages.
package treeview
