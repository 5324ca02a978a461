package ui

import "strings"

const brand = "FLOWVIEW"

type font struct {
	height  int
	gap     int // space between letters
	letters map[rune][]string
}

var fontLarge = font{
	height: 6,
	gap:    0,
	letters: map[rune][]string{
		'F': {
			"███████╗",
			"██╔════╝",
			"█████╗  ",
			"██╔══╝  ",
			"██║     ",
			"╚═╝     ",
		},
		'L': {
			"██╗     ",
			"██║     ",
			"██║     ",
			"██║     ",
			"███████╗",
			"╚══════╝",
		},
		'O': {
			" ██████╗ ",
			"██╔═══██╗",
			"██║   ██║",
			"██║   ██║",
			"╚██████╔╝",
			" ╚═════╝ ",
		},
		'W': {
			"██╗    ██╗",
			"██║    ██║",
			"██║ █╗ ██║",
			"██║███╗██║",
			"╚███╔███╔╝",
			" ╚══╝╚══╝ ",
		},
		'V': {
			"██╗   ██╗",
			"██║   ██║",
			"██║   ██║",
			"╚██╗ ██╔╝",
			" ╚████╔╝ ",
			"  ╚═══╝  ",
		},
		'I': {
			"██╗",
			"██║",
			"██║",
			"██║",
			"██║",
			"╚═╝",
		},
		'E': {
			"███████╗",
			"██╔════╝",
			"█████╗  ",
			"██╔══╝  ",
			"███████╗",
			"╚══════╝",
		},
	},
}

var fontMedium = font{
	height: 5,
	gap:    1,
	letters: map[rune][]string{
		'F': {
			"█████",
			"█    ",
			"███  ",
			"█    ",
			"█    ",
		},
		'L': {
			"█    ",
			"█    ",
			"█    ",
			"█    ",
			"█████",
		},
		'O': {
			"▄███▄",
			"█   █",
			"█   █",
			"█   █",
			"▀███▀",
		},
		'W': {
			"█   █",
			"█   █",
			"█ █ █",
			"██▄██",
			"█▀ ▀█",
		},
		'V': {
			"█   █",
			"█   █",
			"█   █",
			" █ █ ",
			"  █  ",
		},
		'I': {
			"█",
			"█",
			"█",
			"█",
			"█",
		},
		'E': {
			"████▄",
			"█    ",
			"███  ",
			"█    ",
			"████▀",
		},
	},
}

func (f font) width(word string) int {
	w := 0
	for i, ch := range []rune(word) {
		if rows := f.letters[ch]; len(rows) > 0 {
			w += len([]rune(rows[0]))
		}
		if i > 0 {
			w += f.gap
		}
	}
	return w
}

func (f font) render(word string) string {
	rows := make([]strings.Builder, f.height)
	for i, ch := range []rune(word) {
		glyph := f.letters[ch]
		for row := range rows {
			if i > 0 {
				rows[row].WriteString(strings.Repeat(" ", f.gap))
			}
			if row < len(glyph) {
				rows[row].WriteString(glyph[row])
			}
		}
	}
	lines := make([]string, f.height)
	for i := range rows {
		lines[i] = " " + rows[i].String()
	}
	return strings.Join(lines, "\n")
}

// renderLogo picks the largest font that fits maxWidth, falling back to
// plain text.
func renderLogo(maxWidth int) string {
	for _, f := range []font{fontLarge, fontMedium} {
		if f.width(brand)+1 <= maxWidth {
			return f.render(brand)
		}
	}
	return " " + brand
}
