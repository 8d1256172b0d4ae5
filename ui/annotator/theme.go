package annotator

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// annotatorTheme provides a custom theme for the application.
type annotatorTheme struct{}

var _ fyne.Theme = (*annotatorTheme)(nil)

func (t *annotatorTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x1A, G: 0x56, B: 0xC4, A: 0xFF} // Blue to match reference outlines
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x1C, G: 0x1C, B: 0x1C, A: 0xFF} // Dark surround for image work
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *annotatorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *annotatorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *annotatorTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 2 // Tight padding, more room for the image
	default:
		return theme.DefaultTheme().Size(name)
	}
}
