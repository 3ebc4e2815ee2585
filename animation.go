package treeview

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// viewAnim holds active tweens for the focal point and zoom level.
type viewAnim struct {
	focalX *gween.Tween
	focalY *gween.Tween
	zoom   *gween.Tween
	done   bool
}

// AnimateTo tweens the view so that the content point focal ends up at the
// viewport center at the given zoom level (clamped), over duration seconds.
// The animation advances in Update and is cancelled by any contact start or
// wheel zoom. A non-positive duration jumps immediately.
func (c *Controller) AnimateTo(focal Vec2, zoom float64, duration float32, easeFn ease.TweenFunc) {
	zoom = c.state.clamp(zoom)
	if duration <= 0 {
		c.anim = nil
		c.state.setView(focal, zoom)
		c.commit()
		return
	}
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	from := c.state.FocalPoint()
	c.anim = &viewAnim{
		focalX: gween.New(float32(from.X), float32(focal.X), duration, easeFn),
		focalY: gween.New(float32(from.Y), float32(focal.Y), duration, easeFn),
		zoom:   gween.New(float32(c.state.Zoom), float32(zoom), duration, easeFn),
	}
}

// Reset animates back to the content origin at the initial zoom level for
// the current surface.
func (c *Controller) Reset(duration float32) {
	c.AnimateTo(Vec2{}, c.cfg.initialZoomFor(c.width), duration, ease.InOutQuad)
}

// Fit animates so that r, plus padding on every side in content units, fills
// the visible area as far as the zoom bounds allow. No-op before
// initialization or for an empty rectangle.
func (c *Controller) Fit(r Rect, padding float64, duration float32) {
	if !c.initialized || r.Width < 0 || r.Height < 0 {
		return
	}
	w, h := c.projectionSize()
	pw := r.Width + 2*padding
	ph := r.Height + 2*padding
	if !(pw > 0) || !(ph > 0) || !(w > 0) || !(h > 0) {
		return
	}
	zoom := math.Min(w/pw, h/ph)
	c.AnimateTo(r.Center(), zoom, duration, ease.InOutQuad)
}

// Animating reports whether a view animation is running.
func (c *Controller) Animating() bool { return c.anim != nil }

func (c *Controller) stopAnimation() { c.anim = nil }

// stepAnimation advances the running animation. Reports whether the view
// changed.
func (c *Controller) stepAnimation(dt float32) bool {
	a := c.anim
	fx, doneX := a.focalX.Update(dt)
	fy, doneY := a.focalY.Update(dt)
	z, doneZ := a.zoom.Update(dt)
	before := c.state
	c.state.setView(Vec2{X: float64(fx), Y: float64(fy)}, float64(z))
	if doneX && doneY && doneZ {
		c.anim = nil
	}
	return c.state.Zoom != before.Zoom || c.state.Center != before.Center
}

// setView places focal at the viewport center at zoom z, clamped. Used by
// animations, which move in steps smaller than the zoom epsilon.
func (s *ViewportState) setView(focal Vec2, z float64) {
	if math.IsNaN(z) {
		return
	}
	s.Zoom = s.clamp(z)
	s.CenterOn(focal)
}
