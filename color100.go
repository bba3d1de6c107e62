package irc

import "fmt"

// Color100 is one of the IRC 99-colour palette's 100 slots (0-98 plus the
// 99 "default" sentinel), per https://modern.ircdocs.horse/formatting#color.
type Color100 uint8

const (
	ColorWhite      Color100 = 0
	ColorBlack      Color100 = 1
	ColorBlue       Color100 = 2
	ColorGreen      Color100 = 3
	ColorRed        Color100 = 4
	ColorBrown      Color100 = 5
	ColorMagenta    Color100 = 6
	ColorOrange     Color100 = 7
	ColorYellow     Color100 = 8
	ColorLightGreen Color100 = 9
	ColorCyan       Color100 = 10
	ColorLightCyan  Color100 = 11
	ColorLightBlue  Color100 = 12
	ColorPink       Color100 = 13
	ColorGrey       Color100 = 14
	ColorLightGrey  Color100 = 15
	ColorDefault    Color100 = 99
)

// ParseColor100 validates a 0-99 color index.
func ParseColor100(n uint8) (Color100, error) {
	if n > 99 {
		return 0, fmt.Errorf("IRC color numbers must be from 0 to 99, got %d", n)
	}
	return Color100(n), nil
}

// ansi256Table maps IRC colors 0-98 to the closest ANSI 256-color index;
// 99 (ColorDefault) has no ANSI equivalent. Ported from the reference
// mapping at https://modern.ircdocs.horse/formatting#colors-16-98.
var ansi256Table = [99]uint8{
	15, 0, 4, 2, 9, 1, 5, 3, 11, 10, 6, 14, 12, 13, 8, 7,
	52, 94, 100, 58, 22, 29, 23, 24, 17, 54, 53, 89, 88, 130, 142, 64,
	28, 35, 30, 25, 18, 91, 90, 125, 124, 166, 184, 106, 34, 49, 37, 33,
	19, 129, 127, 161, 196, 208, 226, 154, 46, 86, 51, 75, 21, 171, 201, 198,
	203, 215, 227, 191, 83, 122, 87, 111, 63, 177, 207, 205, 217, 223, 229, 193,
	157, 158, 159, 153, 147, 183, 219, 212, 16, 233, 235, 237, 239, 241, 244, 247,
	250, 254, 231,
}

// ToAnsi256 returns the closest ANSI 256-color palette index, or false for
// ColorDefault (99), which has no ANSI equivalent.
func (c Color100) ToAnsi256() (uint8, bool) {
	if c == ColorDefault {
		return 0, false
	}
	if int(c) >= len(ansi256Table) {
		return 0, false
	}
	return ansi256Table[c], true
}
