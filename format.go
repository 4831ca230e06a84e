package clog

// DefaultFormat is used by handlers configured without a format string.
const DefaultFormat = "%t(%Y-%m-%d %H:%M:%S) %l %g(%fK)(%f:%L)%G: %m"

// FormatPart is one instruction of a compiled format. The concrete types
// below are the only implementations.
type FormatPart interface {
	formatPart()
}

type (
	// LiteralPart is verbatim text. Text is never empty.
	LiteralPart struct{ Text string }
	// MessagePart is the formatted message body (%m).
	MessagePart struct{}
	// LevelPart is the severity label (%l).
	LevelPart struct{}
	// FilenamePart is the call-site file (%f).
	FilenamePart struct{}
	// LinePart is the call-site line (%L).
	LinePart struct{}
	// FunctionPart is the call-site function (%F).
	FunctionPart struct{}
	// TimePart is a strftime timestamp (%t(pattern)).
	TimePart struct{ Pattern string }
	// DurationPart is the time elapsed since the logger was created (%d).
	DurationPart struct{}
	// RolloverPart is the handler's rollover counter (%r).
	RolloverPart struct{}
	// ProcessIDPart is the process id (%p).
	ProcessIDPart struct{}
	// ThreadIDPart is the OS thread id (%T).
	ThreadIDPart struct{}
	// GoroutineIDPart is the portable thread id, the goroutine id in Go (%P).
	GoroutineIDPart struct{}
	// SgrModifyPart is precompiled SGR escape text (%g(spec)).
	SgrModifyPart struct{ Escape string }
	// SgrResetPart resets all SGR attributes (%G).
	SgrResetPart struct{}
)

func (LiteralPart) formatPart()     {}
func (MessagePart) formatPart()     {}
func (LevelPart) formatPart()       {}
func (FilenamePart) formatPart()    {}
func (LinePart) formatPart()        {}
func (FunctionPart) formatPart()    {}
func (TimePart) formatPart()        {}
func (DurationPart) formatPart()    {}
func (RolloverPart) formatPart()    {}
func (ProcessIDPart) formatPart()   {}
func (ThreadIDPart) formatPart()    {}
func (GoroutineIDPart) formatPart() {}
func (SgrModifyPart) formatPart()   {}
func (SgrResetPart) formatPart()    {}

// singleDirectives maps a directive character to its part. A nil part means
// the directive is recognised but produces no output (process name, exec
// path and user are not implemented).
var singleDirectives = map[byte]FormatPart{
	'm': MessagePart{},
	'l': LevelPart{},
	'f': FilenamePart{},
	'L': LinePart{},
	'F': FunctionPart{},
	'd': DurationPart{},
	'r': RolloverPart{},
	'p': ProcessIDPart{},
	'n': nil,
	'x': nil,
	'u': nil,
	'T': ThreadIDPart{},
	'P': GoroutineIDPart{},
	'G': SgrResetPart{},
}

// Compile translates a format string into its part sequence. It never
// fails: unknown directives and unterminated %t( / %g( blocks are kept as
// literal text. Adjacent literal text is merged into one part.
//
// Example:
//
//	Compile("[%l] %m") // [LiteralPart{"["}, LevelPart{}, LiteralPart{"] "}, MessagePart{}]
func Compile(format string) []FormatPart {
	c := compiler{src: format, parts: make([]FormatPart, 0, 8)}
	return c.run()
}

type compiler struct {
	src   string
	parts []FormatPart
	j     int // start of pending literal text
}

func (c *compiler) run() []FormatPart {
	i := 0
	for i < len(c.src) {
		if c.src[i] != '%' || i+1 >= len(c.src) {
			i++
			continue
		}
		d := c.src[i+1]
		if part, ok := singleDirectives[d]; ok {
			c.flush(i)
			if part != nil {
				c.parts = append(c.parts, part)
			}
			i += 2
			c.j = i
			continue
		}
		switch d {
		case '%':
			c.flush(i)
			c.literal("%")
			i += 2
			c.j = i
			continue
		case 't', 'g':
			if inner, end, ok := c.delimited(i + 2); ok {
				c.flush(i)
				if d == 't' {
					c.parts = append(c.parts, TimePart{Pattern: inner})
				} else if esc := CompileSgr(inner); esc != "" {
					c.parts = append(c.parts, SgrModifyPart{Escape: esc})
				}
				i = end
				c.j = i
				continue
			}
		}
		// Unknown or malformed: leave the '%' in the pending literal.
		i++
	}
	c.flush(len(c.src))
	return c.parts
}

// delimited returns the text between the '(' at start and its matching ')'
// and the index just past the ')'. Parentheses nest so that RGB triples
// inside %g(...) do not close the block.
func (c *compiler) delimited(start int) (string, int, bool) {
	if start >= len(c.src) || c.src[start] != '(' {
		return "", 0, false
	}
	depth := 0
	for k := start; k < len(c.src); k++ {
		switch c.src[k] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return c.src[start+1 : k], k + 1, true
			}
		}
	}
	return "", 0, false
}

func (c *compiler) flush(end int) {
	if end > c.j {
		c.literal(c.src[c.j:end])
	}
}

func (c *compiler) literal(text string) {
	if text == "" {
		return
	}
	if n := len(c.parts); n > 0 {
		if prev, ok := c.parts[n-1].(LiteralPart); ok {
			c.parts[n-1] = LiteralPart{Text: prev.Text + text}
			return
		}
	}
	c.parts = append(c.parts, LiteralPart{Text: text})
}
