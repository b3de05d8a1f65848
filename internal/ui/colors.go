package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	darkStyles  = NewPalette("#7D56F4", "#04B575", "#FF5F87", "#FFA500", "#626262")
	lightStyles = NewPalette("#5A32C8", "#027A4C", "#C0143C", "#B36B00", "#8A8A8A")
)

// StylesFor picks the palette matching the user's dark-mode preference.
func StylesFor(darkMode bool) *Palette {
	if darkMode {
		return darkStyles
	}
	return lightStyles
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
