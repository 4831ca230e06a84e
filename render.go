package clog

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"
)

var processID = os.Getpid()

// record is the per-call render context shared by every handler that
// accepts the call.
type record struct {
	level    Level
	file     string
	line     int
	function string
	message  string
	now      time.Time
	start    time.Time
}

// newRecord formats the message once. Without arguments the message is
// used verbatim so that a stray '%' is not reported as a bad verb.
func newRecord(level Level, file string, line int, function, message string, args []any, start time.Time) *record {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	return &record{
		level:    level,
		file:     file,
		line:     line,
		function: function,
		message:  message,
		now:      time.Now(),
		start:    start,
	}
}

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}

// render evaluates parts left to right into buf and terminates the line.
func render(buf *bytes.Buffer, parts []FormatPart, rec *record, levels *levelRegistry, sgrOn bool, rollover int) {
	var scratch [32]byte
	for _, part := range parts {
		switch p := part.(type) {
		case LiteralPart:
			buf.WriteString(p.Text)
		case MessagePart:
			buf.WriteString(rec.message)
		case LevelPart:
			buf.WriteString(levels.label(rec.level, sgrOn))
		case FilenamePart:
			buf.WriteString(rec.file)
		case LinePart:
			buf.Write(strconv.AppendInt(scratch[:0], int64(rec.line), 10))
		case FunctionPart:
			buf.WriteString(rec.function)
		case TimePart:
			buf.WriteString(strftime.Format(p.Pattern, rec.now))
		case DurationPart:
			elapsed := rec.now.Sub(rec.start).Seconds()
			buf.Write(strconv.AppendFloat(scratch[:0], elapsed, 'f', 6, 64))
		case RolloverPart:
			buf.Write(strconv.AppendInt(scratch[:0], int64(rollover), 10))
		case ProcessIDPart:
			buf.Write(strconv.AppendInt(scratch[:0], int64(processID), 10))
		case ThreadIDPart:
			buf.Write(strconv.AppendInt(scratch[:0], int64(osThreadID()), 10))
		case GoroutineIDPart:
			buf.Write(strconv.AppendUint(scratch[:0], goroutineID(), 10))
		case SgrModifyPart:
			if sgrOn {
				buf.WriteString(p.Escape)
			}
		case SgrResetPart:
			if sgrOn {
				buf.WriteString(sgrReset)
			}
		}
	}
	buf.WriteByte('\n')
}

// goroutineID parses the id from the "goroutine N [" header of the
// current stack.
func goroutineID() uint64 {
	var stack [64]byte
	b := stack[:runtime.Stack(stack[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}
