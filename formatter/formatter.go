package formatter

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/lixenwraith/runlog/sanitizer"
)

// DefaultTimestampFormat renders "YYYY-MM-DD HH:MM:SS"
const DefaultTimestampFormat = "2006-01-02 15:04:05"

// Formatter manages the buffered writing and formatting of log lines
type Formatter struct {
	sanitizer       *sanitizer.Sanitizer
	timestampFormat string
	buf             []byte
}

// New creates a formatter with the provided sanitizer
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New().Policy(sanitizer.PolicyTxt)
	}
	return &Formatter{
		sanitizer:       san,
		timestampFormat: DefaultTimestampFormat,
		buf:             make([]byte, 0, 256),
	}
}

// TimestampFormat sets the timestamp format string
func (f *Formatter) TimestampFormat(format string) *Formatter {
	if format != "" {
		f.timestampFormat = format
	}
	return f
}

// Format renders "[<timestamp>] [<LEVEL>] <args...>\n".
// The returned slice is reused by the next call.
func (f *Formatter) Format(timestamp time.Time, level int64, args []any) []byte {
	f.Reset()

	f.buf = append(f.buf, '[')
	f.buf = timestamp.AppendFormat(f.buf, f.timestampFormat)
	f.buf = append(f.buf, ']', ' ', '[')
	f.buf = append(f.buf, LevelToString(level)...)
	f.buf = append(f.buf, ']', ' ')

	serializer := sanitizer.NewSerializer(f.sanitizer)
	for i, arg := range args {
		f.convertValue(&f.buf, arg, serializer, i > 0)
	}

	f.buf = append(f.buf, '\n')
	return f.buf
}

// Reset clears the formatter buffer for reuse
func (f *Formatter) Reset() {
	f.buf = f.buf[:0]
}

// LevelToString converts integer level values to string
func LevelToString(level int64) string {
	switch level {
	case -4:
		return "DEBUG"
	case 0:
		return "INFO"
	case 4:
		return "WARN"
	case 8:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// convertValue provides unified type conversion
func (f *Formatter) convertValue(buf *[]byte, v any, serializer *sanitizer.Serializer, needsSpace bool) {
	if needsSpace {
		*buf = append(*buf, ' ')
	}

	switch val := v.(type) {
	case string:
		serializer.WriteString(buf, val)

	case []byte:
		serializer.WriteString(buf, string(val))

	case rune:
		var runeStr [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeStr[:], val)
		serializer.WriteString(buf, string(runeStr[:n]))

	case int:
		serializer.WriteNumber(buf, strconv.AppendInt(nil, int64(val), 10))

	case int64:
		serializer.WriteNumber(buf, strconv.AppendInt(nil, val, 10))

	case uint:
		serializer.WriteNumber(buf, strconv.AppendUint(nil, uint64(val), 10))

	case uint64:
		serializer.WriteNumber(buf, strconv.AppendUint(nil, val, 10))

	case float32:
		serializer.WriteNumber(buf, strconv.AppendFloat(nil, float64(val), 'f', -1, 32))

	case float64:
		serializer.WriteNumber(buf, strconv.AppendFloat(nil, val, 'f', -1, 64))

	case bool:
		serializer.WriteBool(buf, val)

	case nil:
		serializer.WriteNil(buf)

	case time.Time:
		serializer.WriteString(buf, val.Format(f.timestampFormat))

	case time.Duration:
		serializer.WriteString(buf, val.String())

	case error:
		serializer.WriteString(buf, val.Error())

	case fmt.Stringer:
		serializer.WriteString(buf, val.String())

	default:
		serializer.WriteComplex(buf, val)
	}
}
