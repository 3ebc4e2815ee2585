package treeview

// Gesture is the interaction derived from the number of active contacts.
type Gesture uint8

const (
	GestureIdle  Gesture = iota // no contacts
	GesturePan                  // exactly one contact
	GesturePinch                // two or more contacts; the two oldest participate
)

func (g Gesture) String() string {
	switch g {
	case GestureIdle:
		return "idle"
	case GesturePan:
		return "pan"
	case GesturePinch:
		return "pinch"
	default:
		return "unknown"
	}
}

// Classify derives the gesture from ledger contents. It keeps no state of its
// own, so it can be re-derived on every event.
func Classify(l *PointerLedger) Gesture {
	switch n := l.Count(); {
	case n == 0:
		return GestureIdle
	case n == 1:
		return GesturePan
	default:
		return GesturePinch
	}
}

// pinchPair returns the two contacts that take part in a pinch: the two
// oldest. ok is false with fewer than two contacts.
func pinchPair(l *PointerLedger) (a, b PointerID, ok bool) {
	var buf [2]PointerID
	ids := l.Oldest(2, buf[:0])
	if len(ids) < 2 {
		return 0, 0, false
	}
	return ids[0], ids[1], true
}
