// FILE: lixenwraith/runlog/sanitizer/sanitizer.go
// Package sanitizer provides a fluent and composable interface for sanitizing
// log text based on configurable rules using bitwise filter flags and transforms.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Matches runes not printable by strconv.IsPrint, tab excluded
	FilterLineBreak                       // Matches '\n' and '\r'
)

// Transform flags for character transformation
const (
	TransformStrip     uint64 = 1 << iota // Removes the character
	TransformHexEncode                    // Encodes the character's UTF-8 bytes as "<XXYY>"
	TransformSpace                        // Replaces the character with a single space
)

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw     PolicyPreset = "raw"     // Raw is a no-op (passthrough)
	PolicyTxt     PolicyPreset = "txt"     // Hex-encodes non-printables, one record per line
	PolicyOneLine PolicyPreset = "oneline" // Folds line breaks into spaces, hex-encodes the rest
	PolicyStrip   PolicyPreset = "strip"   // Drops non-printables, including escape sequences' ESC
)

// rule represents a single sanitization rule
type rule struct {
	filter    uint64
	transform uint64
}

// policyRules contains pre-configured rules for each policy
var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:     {},
	PolicyTxt:     {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyOneLine: {
		{filter: FilterLineBreak, transform: TransformSpace},
		{filter: FilterNonPrintable, transform: TransformHexEncode},
	},
	PolicyStrip: {{filter: FilterNonPrintable, transform: TransformStrip}},
}

// IsPolicy reports whether name is a known policy preset
func IsPolicy(name string) bool {
	_, ok := policyRules[PolicyPreset(name)]
	return ok
}

// filterOrder keeps filter evaluation deterministic
var filterOrder = []uint64{FilterNonPrintable, FilterLineBreak}

// filterCheckers maps individual filter flags to their check functions
var filterCheckers = map[uint64]func(rune) bool{
	// Tab separates columns in timer lines and passes through
	FilterNonPrintable: func(r rune) bool { return r != '\t' && !strconv.IsPrint(r) },
	FilterLineBreak:    func(r rune) bool { return r == '\n' || r == '\r' },
}

// Sanitizer provides chainable text sanitization
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a new Sanitizer instance
func New() *Sanitizer {
	return &Sanitizer{
		rules: []rule{},
		buf:   make([]byte, 0, 256),
	}
}

// Rule adds a custom rule to the sanitizer (appended, earliest rule applies first)
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy applies a pre-configured policy to the sanitizer (appended)
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	for _, rl := range policyRules[preset] {
		s.Rule(rl.filter, rl.transform)
	}
	return s
}

// Sanitize applies all configured rules to the input string
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}

	s.buf = s.buf[:0]

	for _, r := range data {
		matched := false
		// First matching rule wins
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				applyTransform(&s.buf, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			s.buf = utf8.AppendRune(s.buf, r)
		}
	}

	return string(s.buf)
}

// matchesFilter checks if a rune matches any filter in the mask
func matchesFilter(r rune, filterMask uint64) bool {
	for _, flag := range filterOrder {
		if (filterMask&flag) != 0 && filterCheckers[flag](r) {
			return true
		}
	}
	return false
}

// applyTransform applies the specified transform to the buffer
func applyTransform(buf *[]byte, r rune, transformMask uint64) {
	switch {
	case (transformMask & TransformStrip) != 0:
		// Do nothing (strip)

	case (transformMask & TransformHexEncode) != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		*buf = append(*buf, '<')
		*buf = append(*buf, hex.EncodeToString(runeBytes[:n])...)
		*buf = append(*buf, '>')

	case (transformMask & TransformSpace) != 0:
		*buf = append(*buf, ' ')
	}
}

// dumper renders complex values in a compact, deterministic form
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Serializer writes values into a log line buffer through a sanitizer
type Serializer struct {
	sanitizer *Sanitizer
}

// NewSerializer creates a serializer bound to a sanitizer
func NewSerializer(san *Sanitizer) *Serializer {
	if san == nil {
		san = New()
	}
	return &Serializer{sanitizer: san}
}

// WriteString writes a sanitized string
func (se *Serializer) WriteString(buf *[]byte, s string) {
	*buf = append(*buf, se.sanitizer.Sanitize(s)...)
}

// WriteNumber writes a number value
func (se *Serializer) WriteNumber(buf *[]byte, n []byte) {
	*buf = append(*buf, n...)
}

// WriteBool writes a boolean value
func (se *Serializer) WriteBool(buf *[]byte, b bool) {
	*buf = strconv.AppendBool(*buf, b)
}

// WriteNil writes a nil value
func (se *Serializer) WriteNil(buf *[]byte) {
	*buf = append(*buf, "nil"...)
}

// WriteComplex writes structs, maps, slices and pointers using spew
func (se *Serializer) WriteComplex(buf *[]byte, v any) {
	se.WriteString(buf, dumper.Sprintf("%+v", v))
}
