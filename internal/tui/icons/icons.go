package icons

import (
	"os"
	"reflect"
	"strings"
)

// IconSet contains the glyphs the grid view draws with.
type IconSet struct {
	// Edges
	ShadowBottom string
	ShadowRight  string

	// Text
	Ellipsis string
	Times    string

	// Status
	Check   string
	Cross   string
	Warning string
	Pointer string
}

// Unicode uses box drawing and typographic characters.
var Unicode = IconSet{
	ShadowBottom: "▔",
	ShadowRight:  "▏",
	Ellipsis:     "…",
	Times:        "×",
	Check:        "✓",
	Cross:        "✗",
	Warning:      "⚠",
	Pointer:      "▸",
}

// ASCII works on any terminal.
var ASCII = IconSet{
	ShadowBottom: "-",
	ShadowRight:  "|",
	Ellipsis:     "~",
	Times:        "x",
	Check:        "+",
	Cross:        "x",
	Warning:      "!",
	Pointer:      ">",
}

// WithFallback fills empty fields of i from fallback.
func (i IconSet) WithFallback(fallback IconSet) IconSet {
	if reflect.DeepEqual(i, fallback) {
		return i
	}

	out := i
	dst := reflect.ValueOf(&out).Elem()
	fb := reflect.ValueOf(fallback)

	for idx := 0; idx < dst.NumField(); idx++ {
		f := dst.Field(idx)
		if f.Kind() != reflect.String {
			continue
		}
		if f.String() != "" {
			continue
		}
		f.SetString(fb.Field(idx).String())
	}

	return out
}

// HasUnicode detects if the terminal supports Unicode
func HasUnicode() bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := strings.ToLower(os.Getenv(key))
		if v == "" {
			continue
		}
		// The first set locale variable wins.
		return strings.Contains(v, "utf")
	}

	// Linux console without a locale is the usual ASCII-only case.
	if os.Getenv("TERM") == "linux" {
		return false
	}

	return true
}

// Detect returns the appropriate icon set for the current terminal
func Detect() IconSet {
	switch strings.ToLower(os.Getenv("CROSSTAB_ICONS")) {
	case "unicode":
		return Unicode
	case "ascii":
		return ASCII
	}
	if HasUnicode() {
		return Unicode
	}
	return ASCII
}

// Default is the auto-detected icon set
var Default = Detect()

// Current returns the currently active icon set
func Current() IconSet {
	return Default
}

// SetDefault allows overriding the default icon set
func SetDefault(icons IconSet) {
	Default = icons.WithFallback(ASCII)
}

// StatusIcon returns the check or cross glyph.
func (i IconSet) StatusIcon(success bool) string {
	if success {
		return i.Check
	}
	return i.Cross
}
