// Package format parses collectd-nagios status lines and re-renders them
// through user-supplied printf-style format strings.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lindenbaum/check-collectd/internal/check"
)

// Number is a numeric value extracted from a status line. Text keeps the
// original source spelling so %s substitution reproduces the utility's own
// precision; Value backs the float and integer verbs.
type Number struct {
	Text  string
	Value float64
}

// Line is one of the recognized status-line shapes.
type Line interface {
	isLine()
}

// ConsolidatedLine is a "label: <value> <kind> |perfdata" line, printed when
// the utility consolidated multiple data sources into a single value.
type ConsolidatedLine struct {
	Label    string
	Value    Number
	Kind     string // average, percent or sum; captured but not substituted
	Perfdata string
	Values   []Number // numbers scanned out of Perfdata, in order
}

// ThresholdLine is a "label: ... critical, ... warning, ... ok |perfdata"
// line. The raw counts are discarded: replacing them with the perfdata
// values is the whole point of reformatting.
type ThresholdLine struct {
	Label    string
	Perfdata string
	Values   []Number
}

// ErrorLine is the utility reporting that the requested value does not
// exist on the server.
type ErrorLine struct {
	Detail string
}

// RawLine is anything the other patterns do not recognize, passed through
// verbatim. UNKNOWN-status lines always end up here.
type RawLine struct {
	Text string
}

func (ConsolidatedLine) isLine() {}
func (ThresholdLine) isLine()    {}
func (ErrorLine) isLine()        {}
func (RawLine) isLine()          {}

const number = `[-+]?[0-9]+(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?`

var (
	consolidatedRe = regexp.MustCompile(`^([^:|]+): (` + number + `) (average|percent|sum) \|(.*)$`)
	thresholdRe    = regexp.MustCompile(`^([^:|]+): [^|]*critical[^|]*,[^|]*warning[^|]*,[^|]*\bok\b[^|]*\|(.*)$`)
	serverErrorRe  = regexp.MustCompile(`^ERROR: (.*Server error: No such value.*)$`)

	// name=value;;;; with four literal semicolons for the empty threshold
	// fields collectd-nagios always emits.
	perfTokenRe = regexp.MustCompile(`'?[A-Za-z_][A-Za-z0-9_.-]*'?=(` + number + `);;;;`)

	okayRe = regexp.MustCompile(`\b(OKAY|okay)\b`)
)

// Normalize rewrites the utility's inconsistent OKAY/okay tokens to OK/ok.
func Normalize(s string) string {
	return okayRe.ReplaceAllStringFunc(s, func(m string) string {
		if m == "OKAY" {
			return "OK"
		}
		return "ok"
	})
}

// ParseLine matches s against the recognized shapes in order, first match
// wins. s must already be normalized.
func ParseLine(s string) Line {
	if m := consolidatedRe.FindStringSubmatch(s); m != nil {
		return ConsolidatedLine{
			Label:    m[1],
			Value:    parseNumber(m[2]),
			Kind:     m[3],
			Perfdata: m[4],
			Values:   PerfValues(m[4]),
		}
	}
	if m := thresholdRe.FindStringSubmatch(s); m != nil {
		return ThresholdLine{
			Label:    m[1],
			Perfdata: m[2],
			Values:   PerfValues(m[2]),
		}
	}
	if m := serverErrorRe.FindStringSubmatch(s); m != nil {
		return ErrorLine{Detail: m[1]}
	}
	return RawLine{Text: s}
}

// PerfValues scans the performance-data tail for name=value;;;; tokens and
// returns the values in the order found. The tail itself is never rewritten.
func PerfValues(perfdata string) []Number {
	var values []Number
	for _, m := range perfTokenRe.FindAllStringSubmatch(perfdata, -1) {
		values = append(values, parseNumber(m[1]))
	}
	return values
}

func parseNumber(text string) Number {
	value, _ := strconv.ParseFloat(text, 64)
	return Number{Text: text, Value: value}
}

// Render substitutes args into a printf-style format string. Each argument
// is coerced to fit its conversion verb: float verbs get the parsed value,
// integer verbs the truncated value, string verbs the original text.
// Arguments beyond the verb count are dropped rather than letting fmt emit
// EXTRA markers into the plugin output.
func Render(format string, args []any) string {
	vs := verbs(format)
	if len(args) > len(vs) {
		args = args[:len(vs)]
	}
	coerced := make([]any, len(args))
	for i, arg := range args {
		coerced[i] = coerce(vs[i], arg)
	}
	return fmt.Sprintf(format, coerced...)
}

func verbs(format string) []byte {
	var vs []byte
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		for i < len(format) && strings.IndexByte("+-# 0123456789.", format[i]) >= 0 {
			i++
		}
		if i >= len(format) || format[i] == '%' {
			continue
		}
		vs = append(vs, format[i])
	}
	return vs
}

func coerce(verb byte, arg any) any {
	n, ok := arg.(Number)
	if !ok {
		return arg
	}
	switch verb {
	case 'f', 'F', 'e', 'E', 'g', 'G':
		return n.Value
	case 'd', 'b', 'o', 'x', 'X', 'c':
		return int64(n.Value)
	default:
		return n.Text
	}
}

// Process turns a captured status line and exit status into the final
// output line and exit status. The server-error pattern overrides both; a
// missing or blank format string means verbatim passthrough.
func Process(line string, status check.Status, okFormat, problemFormat string) (string, check.Status) {
	line = Normalize(line)

	switch l := ParseLine(line).(type) {
	case ErrorLine:
		return "UNKNOWN: " + l.Detail, check.Unknown
	case ConsolidatedLine:
		f := selectFormat(status, okFormat, problemFormat)
		if f == "" {
			return line, status
		}
		args := []any{l.Label, l.Value}
		for _, v := range l.Values {
			args = append(args, v)
		}
		return Render(f, args) + " |" + l.Perfdata, status
	case ThresholdLine:
		f := selectFormat(status, okFormat, problemFormat)
		if f == "" {
			return line, status
		}
		args := []any{l.Label}
		for _, v := range l.Values {
			args = append(args, v)
		}
		return Render(f, args) + " |" + l.Perfdata, status
	default:
		return line, status
	}
}

// selectFormat picks the format string for the exit status. UNKNOWN lines
// are never reformatted. A whitespace-only format counts as absent.
func selectFormat(status check.Status, okFormat, problemFormat string) string {
	var f string
	switch status {
	case check.OK:
		f = okFormat
	case check.Warning, check.Critical:
		f = problemFormat
	}
	if strings.TrimSpace(f) == "" {
		return ""
	}
	return f
}
