package treeview

import "math"

// ViewportState is the camera's persistent state.
//
// Center is expressed in zoomed content units: the content point at the
// middle of the viewport is Center / Zoom. Center is unconstrained; the
// diagram may be panned arbitrarily far off its content.
type ViewportState struct {
	// Zoom is the scale factor. Content units per screen unit is 1/Zoom.
	// Always within [minZoom, maxZoom].
	Zoom   float64
	Center Vec2

	minZoom float64
	maxZoom float64
	epsilon float64
	factor  float64
}

// newViewportState creates a state at the origin with the initial zoom
// clamped into range.
func newViewportState(cfg Config) ViewportState {
	s := ViewportState{
		minZoom: cfg.MinZoom,
		maxZoom: cfg.MaxZoom,
		epsilon: cfg.ZoomEpsilon,
		factor:  cfg.ZoomFactor,
	}
	s.Zoom = s.clamp(cfg.InitialZoom)
	return s
}

func (s *ViewportState) clamp(z float64) float64 {
	return math.Max(s.minZoom, math.Min(z, s.maxZoom))
}

// Pan translates the center opposite to the pointer motion so that content
// follows the finger. dx and dy are in zoomed content units.
func (s *ViewportState) Pan(dx, dy float64) {
	s.Center.X -= dx
	s.Center.Y -= dy
}

// ZoomTo sets the zoom level, clamped to the configured bounds, keeping the
// content point at the viewport center stationary. It reports false and
// leaves the state untouched when the clamped level is within epsilon of the
// current one.
func (s *ViewportState) ZoomTo(z float64) bool {
	if math.IsNaN(z) {
		return false
	}
	z = s.clamp(z)
	if math.Abs(z-s.Zoom) < s.epsilon {
		return false
	}
	ratio := 1 - z/s.Zoom
	s.Center.X -= s.Center.X * ratio
	s.Center.Y -= s.Center.Y * ratio
	s.Zoom = z
	return true
}

// ZoomBy applies pinch or wheel motion of the given number of device pixels.
// Positive pixels zoom out.
func (s *ViewportState) ZoomBy(pixels float64) bool {
	return s.ZoomTo(s.Zoom - pixels*s.factor)
}

// FocalPoint returns the content-space point currently at the viewport
// center. It does not move under ZoomTo.
func (s *ViewportState) FocalPoint() Vec2 {
	return Vec2{X: s.Center.X / s.Zoom, Y: s.Center.Y / s.Zoom}
}

// CenterOn moves the viewport so that the content point p sits at its
// center.
func (s *ViewportState) CenterOn(p Vec2) {
	s.Center = Vec2{X: p.X * s.Zoom, Y: p.Y * s.Zoom}
}

// Bounds returns the configured zoom range.
func (s *ViewportState) Bounds() (minZoom, maxZoom float64) {
	return s.minZoom, s.maxZoom
}
