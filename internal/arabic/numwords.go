package arabic

import (
	"go.uber.org/zap"

	"github.com/madaris/daftar/internal/format"
)

// InWords covers receipt amounts up to hundreds of millions of dinars.
// Larger values fall back to grouped digits rather than failing.
const maxInWords = 999_999_999

var units = [10]string{
	"", "واحد", "اثنان", "ثلاثة", "أربعة",
	"خمسة", "ستة", "سبعة", "ثمانية", "تسعة",
}

// Unit prefixes composing hundreds: 300 is ثلاثمائة, written solid.
var hundredUnits = [10]string{
	"", "", "", "ثلاث", "أربع", "خمس", "ست", "سبع", "ثمان", "تسع",
}

var tens = [10]string{
	"", "", "عشرون", "ثلاثون", "أربعون",
	"خمسون", "ستون", "سبعون", "ثمانون", "تسعون",
}

// InWords spells n as Arabic cardinal words for the amount-in-words line of
// receipts. Zero and negative values yield "صفر"; negatives additionally log.
// The output is logical-order text; canvas callers shape it before drawing.
func InWords(n int64) string {
	if n < 0 {
		zap.L().Warn("negative amount passed to InWords", zap.Int64("amount", n))
		return "صفر"
	}
	if n == 0 {
		return "صفر"
	}
	if n > maxInWords {
		return format.Group(n) + " دينار"
	}

	var parts []string
	millions := n / 1_000_000
	thousands := (n % 1_000_000) / 1000
	rest := n % 1000

	if millions > 0 {
		parts = append(parts, groupWords(millions, "مليون", "مليونان", "ملايين"))
	}
	if thousands > 0 {
		parts = append(parts, groupWords(thousands, "ألف", "ألفان", "آلاف"))
	}
	if rest > 0 {
		parts = append(parts, belowThousand(rest))
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += " و" + p
	}
	return out
}

// groupWords renders a thousands/millions group count with its singular, dual
// and plural head words: 1 → singular alone, 2 → dual alone, 3..10 → count
// then plural, above → count then singular.
func groupWords(count int64, singular, dual, plural string) string {
	switch {
	case count == 1:
		return singular
	case count == 2:
		return dual
	case count <= 10:
		return belowThousand(count) + " " + plural
	default:
		return belowThousand(count) + " " + singular
	}
}

func belowThousand(n int64) string {
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundredWords(h))
	}
	if r := n % 100; r > 0 {
		parts = append(parts, belowHundred(r))
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " و" + p
	}
	return out
}

func hundredWords(h int64) string {
	switch h {
	case 1:
		return "مائة"
	case 2:
		return "مائتان"
	default:
		return hundredUnits[h] + "مائة"
	}
}

func belowHundred(n int64) string {
	switch {
	case n < 10:
		return units[n]
	case n == 10:
		return "عشرة"
	case n == 11:
		return "أحد عشر"
	case n == 12:
		return "اثنا عشر"
	case n < 20:
		return units[n-10] + " عشر"
	default:
		d := tens[n/10]
		if u := n % 10; u > 0 {
			return units[u] + " و" + d
		}
		return d
	}
}
