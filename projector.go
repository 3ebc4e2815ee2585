package treeview

// Project computes the visible rectangle in content space for a surface of
// w by h units at the given state. ok is false when either dimension is not
// positive, in which case no rectangle is produced.
//
//	extent = (w/zoom, h/zoom)
//	origin = center/zoom - extent/2
func Project(s ViewportState, w, h float64) (r Rect, ok bool) {
	if !(w > 0) || !(h > 0) || !(s.Zoom > 0) {
		return Rect{}, false
	}
	ew := w / s.Zoom
	eh := h / s.Zoom
	return Rect{
		X:      s.Center.X/s.Zoom - ew/2,
		Y:      s.Center.Y/s.Zoom - eh/2,
		Width:  ew,
		Height: eh,
	}, true
}

// ScreenToContent converts a surface position (in surface pixels, origin
// top-left) into content coordinates, given the visible rectangle and the
// surface size.
func ScreenToContent(visible Rect, surfaceW, surfaceH float64, sx, sy float64) Vec2 {
	if surfaceW <= 0 || surfaceH <= 0 {
		return Vec2{X: visible.X, Y: visible.Y}
	}
	return Vec2{
		X: visible.X + sx*visible.Width/surfaceW,
		Y: visible.Y + sy*visible.Height/surfaceH,
	}
}

// ContentToScreen is the inverse of ScreenToContent.
func ContentToScreen(visible Rect, surfaceW, surfaceH float64, cx, cy float64) Vec2 {
	if visible.Width <= 0 || visible.Height <= 0 {
		return Vec2{}
	}
	return Vec2{
		X: (cx - visible.X) * surfaceW / visible.Width,
		Y: (cy - visible.Y) * surfaceH / visible.Height,
	}
}
