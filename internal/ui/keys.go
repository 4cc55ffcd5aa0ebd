package ui

import "github.com/charmbracelet/bubbles/key"

// captureKeys are the bindings of the capture screen
type captureKeys struct {
	Advance      key.Binding
	Undo         key.Binding
	Reset        key.Binding
	Cancel       key.Binding
	Mirror       key.Binding
	Brightness   key.Binding
	Contrast     key.Binding
	Grayscale    key.Binding
	Sepia        key.Binding
	Saturate     key.Binding
	ResetFilters key.Binding
	Timer        key.Binding
	Auto         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newCaptureKeys() captureKeys {
	return captureKeys{
		Advance:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "shoot / next")),
		Undo:         key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("⌫", "undo")),
		Reset:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "reset")),
		Cancel:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel")),
		Mirror:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mirror")),
		Brightness:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bright")),
		Contrast:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "contrast")),
		Grayscale:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "b&w")),
		Sepia:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sepia")),
		Saturate:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "saturate")),
		ResetFilters: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "clear filters")),
		Timer:        key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "timer")),
		Auto:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k captureKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.Undo, k.Reset, k.Timer, k.Auto, k.Help, k.Quit}
}

func (k captureKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Advance, k.Cancel, k.Undo, k.Reset},
		{k.Mirror, k.Brightness, k.Contrast, k.Grayscale},
		{k.Sepia, k.Saturate, k.ResetFilters},
		{k.Timer, k.Auto, k.Help, k.Quit},
	}
}

// layoutKeys are the bindings of the layout screen
type layoutKeys struct {
	Retake       key.Binding
	Export       key.Binding
	Arity        key.Binding
	Slot         key.Binding
	Left         key.Binding
	Right        key.Binding
	Toggle       key.Binding
	NextColor    key.Binding
	PrevColor    key.Binding
	NextGradient key.Binding
	NextOverlay  key.Binding
	HexColor     key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newLayoutKeys() layoutKeys {
	return layoutKeys{
		Retake:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "retake")),
		Export:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		Arity:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "4 / 8 slots")),
		Slot:         key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"), key.WithHelp("1-8", "pick photo")),
		Left:         key.NewBinding(key.WithKeys("left", "h", "up", "k"), key.WithHelp("←", "prev")),
		Right:        key.NewBinding(key.WithKeys("right", "l", "down", "j"), key.WithHelp("→", "next")),
		Toggle:       key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "pick")),
		NextColor:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "color")),
		PrevColor:    key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "prev color")),
		NextGradient: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gradient")),
		NextOverlay:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "overlay")),
		HexColor:     key.NewBinding(key.WithKeys("#"), key.WithHelp("#", "hex color")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k layoutKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Slot, k.Arity, k.NextColor, k.NextGradient, k.NextOverlay, k.Export, k.Retake, k.Help}
}

func (k layoutKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Slot, k.Left, k.Right, k.Toggle},
		{k.Arity, k.NextColor, k.PrevColor, k.NextGradient},
		{k.NextOverlay, k.HexColor, k.Export, k.Retake},
		{k.Help, k.Quit},
	}
}
