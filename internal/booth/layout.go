package booth

// Supported strip arities
const (
	ArityStrip  = 4
	ArityDouble = 8
)

// ValidArity reports whether n is a supported number of slots
func ValidArity(n int) bool {
	return n == ArityStrip || n == ArityDouble
}

// Layout maps captured frames onto strip slots. Selected holds store
// indices in slot order; each index appears at most once.
type Layout struct {
	Arity    int
	Selected []int
}

// NewLayout returns an empty layout with the given arity
func NewLayout(arity int) Layout {
	if !ValidArity(arity) {
		arity = ArityStrip
	}
	return Layout{Arity: arity}
}

// SelectArity switches the arity and always clears the selection
func (l Layout) SelectArity(n int) (Layout, bool) {
	if !ValidArity(n) {
		return l, false
	}
	return Layout{Arity: n}, true
}

// Toggle removes index if it is selected, otherwise appends it when a slot
// is free. Removing compacts the remaining slots.
func (l Layout) Toggle(index int) (Layout, bool) {
	if pos := l.SlotOf(index); pos >= 0 {
		selected := make([]int, 0, len(l.Selected)-1)
		selected = append(selected, l.Selected[:pos]...)
		selected = append(selected, l.Selected[pos+1:]...)
		return Layout{Arity: l.Arity, Selected: selected}, true
	}
	if len(l.Selected) >= l.Arity {
		return l, false
	}
	selected := make([]int, len(l.Selected), len(l.Selected)+1)
	copy(selected, l.Selected)
	return Layout{Arity: l.Arity, Selected: append(selected, index)}, true
}

// SlotOf returns the slot holding index, or -1
func (l Layout) SlotOf(index int) int {
	for pos, i := range l.Selected {
		if i == index {
			return pos
		}
	}
	return -1
}

// Complete reports whether every slot is filled
func (l Layout) Complete() bool {
	return len(l.Selected) == l.Arity
}

// Remaining returns how many slots are still empty
func (l Layout) Remaining() int {
	return l.Arity - len(l.Selected)
}

// Clear empties the selection, keeping the arity
func (l Layout) Clear() Layout {
	return Layout{Arity: l.Arity}
}
