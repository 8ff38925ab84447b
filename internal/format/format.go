// Package format provides the default formatter injected into rendering.
//
// The render core treats format specifiers as opaque text; this package is
// the collaborator that interprets them. Number formatting is locale-aware
// through golang.org/x/text: grouped decimals come from a message.Printer
// and casing specs from the cases package. Unknown specifiers never fail,
// they fall back to default stringification.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Specifiers understood by the default formatter:
//
//	n          grouped decimal for the locale, e.g. 1,234,567
//	f<digits>  fixed-point with the given number of decimals
//	e          scientific notation
//	x, X       lower/upper hexadecimal (integers)
//	u, l, t    upper, lower, title casing of the stringified value
//	000...     zero-pad integers to the specifier's width
//
// time.Time values treat the specifier as a Go time layout. Anything else
// passes through to default stringification.

// Default is the formatter for the English locale.
var Default = New(language.English)

// Formatter interprets format specifiers for one locale.
type Formatter struct {
	printer *message.Printer
	tag     language.Tag
}

// New creates a formatter for the given locale.
func New(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag), tag: tag}
}

// ForLocale creates a formatter from a BCP 47 locale string, falling back
// to English when the locale does not parse.
func ForLocale(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return New(tag)
}

// Format converts value to text under the given specifier. It has the
// render.Formatter signature.
func (f *Formatter) Format(value any, format string) string {
	if format == "" {
		return fmt.Sprint(value)
	}
	if t, ok := value.(time.Time); ok {
		return t.Format(format)
	}

	switch format {
	case "n":
		if i, ok := toInt64(value); ok {
			return f.printer.Sprintf("%d", i)
		}
		if fl, ok := toFloat64(value); ok {
			return f.printer.Sprint(number.Decimal(fl))
		}
	case "e":
		if fl, ok := toFloat64(value); ok {
			return strconv.FormatFloat(fl, 'e', -1, 64)
		}
	case "x":
		if i, ok := toInt64(value); ok {
			return strconv.FormatInt(i, 16)
		}
	case "X":
		if i, ok := toInt64(value); ok {
			return strings.ToUpper(strconv.FormatInt(i, 16))
		}
	case "u":
		return cases.Upper(f.tag).String(fmt.Sprint(value))
	case "l":
		return cases.Lower(f.tag).String(fmt.Sprint(value))
	case "t":
		return cases.Title(f.tag).String(fmt.Sprint(value))
	}

	if strings.HasPrefix(format, "f") {
		if digits, err := strconv.Atoi(format[1:]); err == nil && digits >= 0 {
			if fl, ok := toFloat64(value); ok {
				return f.printer.Sprintf("%."+strconv.Itoa(digits)+"f", fl)
			}
		}
	}
	if isZeroPad(format) {
		if i, ok := toInt64(value); ok {
			return fmt.Sprintf("%0*d", len(format), i)
		}
	}

	return fmt.Sprint(value)
}

func isZeroPad(format string) bool {
	for i := 0; i < len(format); i++ {
		if format[i] != '0' {
			return false
		}
	}
	return len(format) > 0
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		// JSON decoding hands numbers over as float64; integral values
		// keep their integer formatting.
		if v == math.Trunc(v) && v >= math.MinInt64 && v <= math.MaxInt64 {
			return int64(v), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		if i, ok := toInt64(value); ok {
			return float64(i), true
		}
		return 0, false
	}
}
