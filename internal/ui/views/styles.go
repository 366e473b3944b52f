package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultToolbarColor is used when the configured color does not parse
const DefaultToolbarColor = "#2ecc71"

// statusStripDarken is how much darker the strip under the toolbar is
const statusStripDarken = 0.15

// Styles contains all the style definitions for the UI
type Styles struct {
	Toolbar       lipgloss.Style
	StatusStrip   lipgloss.Style
	Dim           lipgloss.Style
	Name          lipgloss.Style
	Meta          lipgloss.Style
	Blurb         lipgloss.Style
	Funded        lipgloss.Style
	StaffPick     lipgloss.Style
	SelectionBg   lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	Help          lipgloss.Style
	PopupBox      lipgloss.Style
	PopupTitle    lipgloss.Style
	Title         lipgloss.Style
	Main          lipgloss.Style
}

// NewStyles creates a new Styles instance around the toolbar color
func NewStyles(toolbarColor string) *Styles {
	if _, err := colorful.Hex(toolbarColor); err != nil {
		toolbarColor = DefaultToolbarColor
	}
	return &Styles{
		Toolbar: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color(toolbarColor)).
			Padding(0, 1),
		StatusStrip: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color(Darken(toolbarColor, statusStripDarken))).
			Padding(0, 1),
		Dim:           lipgloss.NewStyle().Faint(true),
		Name:          lipgloss.NewStyle().Bold(true),
		Meta:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Blurb:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Italic(true),
		Funded:        lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		StaffPick:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Help:          lipgloss.NewStyle().Faint(true),
		PopupBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(toolbarColor)).
			Padding(1, 2).
			Width(48),
		PopupTitle: lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Main: lipgloss.NewStyle().Padding(0, 1),
	}
}

// Darken lowers the HSV value of a hex color by amount (0..1)
func Darken(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, v := c.Hsv()
	v *= 1 - amount
	if v < 0 {
		v = 0
	}
	return colorful.Hsv(h, s, v).Clamped().Hex()
}
