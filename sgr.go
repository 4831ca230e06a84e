package clog

import (
	"strconv"
	"strings"
)

const escape = "\x1b"

// SGR attribute codes.
const (
	sgrBold          = 1
	sgrFaint         = 2
	sgrItalic        = 3
	sgrUnderline     = 4
	sgrReverse       = 7
	sgrStrike        = 9
	sgrNormalWeight  = 22
	sgrItalicOff     = 23
	sgrUnderlineOff  = 24
	sgrReverseOff    = 27
	sgrStrikeOff     = 29
	sgrFgBase        = 30
	sgrFgDefault     = 39
	sgrBgBase        = 40
	sgrBgDefault     = 49
	sgrFgBrightBase  = 90
	sgrBgBrightBase  = 100
	sgrFgExtended    = 38
	sgrBgExtended    = 48
	paletteColorCode = 5
	rgbColorCode     = 2
)

const sgrReset = escape + "[0m"

// namedColors maps a color letter to its index in the 16-color table.
// Lower case letters are the normal intensity, upper case the bright one.
const namedColors = "krgybmcwKRGYBMCW"

func sgr(code int) string {
	return escape + "[" + strconv.Itoa(code) + "m"
}

// CompileSgr translates an SGR style spec into ANSI escape text.
//
// The spec is a sequence of percent codes:
//
//	%d %D  bold on/off           %l %L  faint on/off
//	%i %I  italic on/off         %u %U  underline on/off
//	%s %S  strikethrough on/off  %r %R  reverse on/off
//	%f<c>  foreground color      %F     default foreground
//	%b<c>  background color      %B     default background
//
// <c> is a color letter (krgybmcw, upper case for bright), a palette index
// 1-16, or an (r,g,b) triple. Unknown codes and stray text are dropped.
//
// Example:
//
//	CompileSgr("%d%f(255,0,0)") // "\x1b[1m\x1b[38;2;255;0;0m"
func CompileSgr(spec string) string {
	var b strings.Builder
	i := 0
	for i < len(spec) {
		if spec[i] != '%' || i+1 >= len(spec) {
			i++
			continue
		}
		switch spec[i+1] {
		case 'd':
			b.WriteString(sgr(sgrBold))
		case 'D', 'L':
			b.WriteString(sgr(sgrNormalWeight))
		case 'l':
			b.WriteString(sgr(sgrFaint))
		case 'i':
			b.WriteString(sgr(sgrItalic))
		case 'I':
			b.WriteString(sgr(sgrItalicOff))
		case 'u':
			b.WriteString(sgr(sgrUnderline))
		case 'U':
			b.WriteString(sgr(sgrUnderlineOff))
		case 's':
			b.WriteString(sgr(sgrStrike))
		case 'S':
			b.WriteString(sgr(sgrStrikeOff))
		case 'r':
			b.WriteString(sgr(sgrReverse))
		case 'R':
			b.WriteString(sgr(sgrReverseOff))
		case 'F':
			b.WriteString(sgr(sgrFgDefault))
		case 'B':
			b.WriteString(sgr(sgrBgDefault))
		case 'f', 'b':
			code, n := sgrColor(spec[i+2:], spec[i+1] == 'f')
			b.WriteString(code)
			i += n
		}
		i += 2
	}
	return b.String()
}

// sgrColor decodes the color argument at the start of s. It returns the
// escape text and the number of bytes consumed; an unrecognised argument
// yields ("", 0).
func sgrColor(s string, foreground bool) (string, int) {
	if s == "" {
		return "", 0
	}
	switch c := s[0]; {
	case strings.IndexByte(namedColors, c) >= 0:
		idx := strings.IndexByte(namedColors, c)
		base := sgrFgBase
		if idx >= 8 {
			base = sgrFgBrightBase
			idx -= 8
		}
		if !foreground {
			base += sgrBgBase - sgrFgBase
		}
		return sgr(base + idx), 1
	case c >= '0' && c <= '9':
		return sgrPalette(s, foreground)
	case c == '(':
		return sgrRGB(s, foreground)
	}
	return "", 0
}

// sgrPalette reads a palette index 1-16, preferring two digits when they
// form a valid index.
func sgrPalette(s string, foreground bool) (string, int) {
	n := 0
	if len(s) >= 2 && s[1] >= '0' && s[1] <= '9' {
		if v, _ := strconv.Atoi(s[:2]); v >= 1 && v <= 16 {
			n = 2
		}
	}
	if n == 0 && s[0] >= '1' && s[0] <= '9' {
		n = 1
	}
	if n == 0 {
		return "", 0
	}
	v, _ := strconv.Atoi(s[:n])
	return extendedColor(foreground, paletteColorCode, strconv.Itoa(v-1)), n
}

// sgrRGB reads an (r,g,b) triple. The components are copied verbatim into
// the escape text.
func sgrRGB(s string, foreground bool) (string, int) {
	end := strings.IndexByte(s, ')')
	if end < 0 {
		return "", 0
	}
	parts := strings.Split(s[1:end], ",")
	if len(parts) != 3 {
		return "", 0
	}
	for _, p := range parts {
		if len(p) == 0 || len(p) > 3 {
			return "", 0
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 255 || p[0] == '+' || p[0] == '-' {
			return "", 0
		}
	}
	return extendedColor(foreground, rgbColorCode, strings.Join(parts, ";")), end + 1
}

func extendedColor(foreground bool, mode int, args string) string {
	code := sgrFgExtended
	if !foreground {
		code = sgrBgExtended
	}
	return escape + "[" + strconv.Itoa(code) + ";" + strconv.Itoa(mode) + ";" + args + "m"
}
