// Package theme maps the closed set of supported UI themes to typed color
// palettes. Front ends fetch the palette over the API instead of carrying
// their own color tables.
package theme

// Theme is one member of the closed theme enumeration.
type Theme string

const (
	Dark          Theme = "dark_theme"
	Light         Theme = "light_theme"
	Blue          Theme = "blue_theme"
	DarkGray      Theme = "dark_gray_theme"
	ForestGreen   Theme = "forest_green_theme"
	HighContrast  Theme = "high_contrast_theme"
	LightModern   Theme = "light_modern_theme"
	OceanBlue     Theme = "ocean_blue_theme"
	VibrantPurple Theme = "vibrant_purple_theme"
	WarmSepia     Theme = "warm_sepia_theme"
)

// Default is the fallback when an unknown theme name is requested.
const Default = Dark

// Palette is the strongly typed color record one theme resolves to.
// Colors are CSS hex strings.
type Palette struct {
	Name       Theme  `json:"name"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
	GaugeFill  string `json:"gauge_fill"`
	GaugeWarn  string `json:"gauge_warn"`
}

var palettes = map[Theme]Palette{
	Dark:          {Dark, "#1e1e1e", "#2d2d2d", "#e0e0e0", "#4fc3f7", "#4fc3f7", "#ef5350"},
	Light:         {Light, "#fafafa", "#ffffff", "#212121", "#1976d2", "#1976d2", "#d32f2f"},
	Blue:          {Blue, "#0d1b2a", "#1b263b", "#e0e1dd", "#3a86ff", "#3a86ff", "#ff6b6b"},
	DarkGray:      {DarkGray, "#2b2b2b", "#3c3f41", "#bbbbbb", "#6897bb", "#6897bb", "#cc7832"},
	ForestGreen:   {ForestGreen, "#1b2a1f", "#24382a", "#d8e2dc", "#52b788", "#52b788", "#e76f51"},
	HighContrast:  {HighContrast, "#000000", "#000000", "#ffffff", "#ffff00", "#00ff00", "#ff0000"},
	LightModern:   {LightModern, "#f5f7fa", "#ffffff", "#1a202c", "#667eea", "#667eea", "#e53e3e"},
	OceanBlue:     {OceanBlue, "#03045e", "#023e8a", "#caf0f8", "#00b4d8", "#00b4d8", "#ff758f"},
	VibrantPurple: {VibrantPurple, "#10002b", "#240046", "#e0aaff", "#9d4edd", "#9d4edd", "#ff5d8f"},
	WarmSepia:     {WarmSepia, "#3e2f23", "#4f3c2d", "#ede0d4", "#ddb892", "#ddb892", "#bc4749"},
}

// Lookup resolves a theme name to its palette. Unknown names resolve to
// the default theme's palette and ok is false.
func Lookup(name string) (Palette, bool) {
	if p, ok := palettes[Theme(name)]; ok {
		return p, true
	}
	return palettes[Default], false
}

// Names returns every supported theme name.
func Names() []Theme {
	return []Theme{
		Dark, Light, Blue, DarkGray, ForestGreen,
		HighContrast, LightModern, OceanBlue, VibrantPurple, WarmSepia,
	}
}
