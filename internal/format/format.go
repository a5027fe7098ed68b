// Package format holds the canonical number and date formatters shared by
// both render back-ends. Every amount shown anywhere in the application goes
// through Amount or Group so separators and the currency suffix stay uniform.
package format

import (
	"fmt"
	"strconv"
	"time"
)

// CurrencySuffix is the Iraqi Dinar suffix appended to every displayed amount.
const CurrencySuffix = "د.ع"

// Group renders n with comma thousands separators. Amounts are whole dinars;
// there is no fractional part anywhere in the system.
func Group(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var out []byte
		pre := len(s) % 3
		if pre > 0 {
			out = append(out, s[:pre]...)
		}
		for i := pre; i < len(s); i += 3 {
			if len(out) > 0 {
				out = append(out, ',')
			}
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}
	if neg {
		return "-" + s
	}
	return s
}

// Amount renders n as a display amount with the dinar suffix.
func Amount(n int64) string {
	return Group(n) + " " + CurrencySuffix
}

// Date renders t as an ISO-8601 date, the form used inside receipts.
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}

// Timestamp renders t in the human-readable form used in report headers and
// receipt footers.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// Coerce turns an arbitrary payload value into display text. Numbers go
// through Group, times through Date; everything else is stringified.
func Coerce(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return Group(int64(x))
	case int64:
		return Group(x)
	case float64:
		return Group(int64(x))
	case time.Time:
		return Date(x)
	case bool:
		if x {
			return "نعم"
		}
		return "لا"
	default:
		return fmt.Sprintf("%v", x)
	}
}
