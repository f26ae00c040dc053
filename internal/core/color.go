package core

// Color is a foreground color for a screen cell. The platform layer
// decides what each one looks like.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorYellow
	ColorWhite
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// tilePalette is indexed by log2(value)-1, so 2 maps to the first entry.
var tilePalette = []Color{
	ColorWhite,         // 2
	ColorBrightWhite,   // 4
	ColorYellow,        // 8
	ColorOrange,        // 16
	ColorRed,           // 32
	ColorRed,           // 64
	ColorBrightMagenta, // 128
	ColorBrightMagenta, // 256
	ColorBrightCyan,    // 512
	ColorBrightCyan,    // 1024
}

// TileColor returns the color for a tile value. Colors get warmer as
// the value grows; everything from 2048 up shares the last color.
func TileColor(value int) Color {
	i := -1
	for v := value; v > 1; v >>= 1 {
		i++
	}
	switch {
	case i < 0:
		return ColorDefault
	case i >= len(tilePalette):
		return ColorBrightGreen
	}
	return tilePalette[i]
}
