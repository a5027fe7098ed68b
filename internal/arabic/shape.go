// Package arabic renders logical-order Arabic text usable by rasterizers that
// do no shaping of their own: contextual presentation forms first, then bidi
// reordering for a right-to-left base paragraph. It also spells currency
// amounts in Arabic words for receipt amount-in-words lines.
package arabic

import (
	"go.uber.org/zap"
	"golang.org/x/text/unicode/bidi"
)

// Shape converts logical-order text into visually-ordered, presentation-form
// text. Non-Arabic codepoints pass through untouched and end up where the
// bidi algorithm places them. Shape never fails: any internal problem logs a
// warning and yields the input unchanged. Callers must shape a string exactly
// once; shaping already-shaped text corrupts joining forms.
func Shape(s string) (out string) {
	if !HasArabic(s) {
		return s
	}
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("arabic shaping failed, using unshaped text", zap.Any("cause", r))
			out = s
		}
	}()
	return reorder(substitute(s))
}

// substitute applies contextual form selection in logical order, collapsing
// lam-alef pairs into their ligature glyphs and stripping harakat.
func substitute(s string) string {
	var runes []rune
	for _, r := range s {
		if !isHaraka(r) {
			runes = append(runes, r)
		}
	}

	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		l, ok := letters[r]
		if !ok {
			out = append(out, r)
			continue
		}

		prevLinks := linksAfter(runes, i-1)

		if r == lam && i+1 < len(runes) {
			if lig, ok := lamAlef[runes[i+1]]; ok {
				if prevLinks {
					out = append(out, lig[1])
				} else {
					out = append(out, lig[0])
				}
				i++
				continue
			}
		}

		nextLinks := linksBefore(runes, i+1)

		var f rune
		switch {
		case prevLinks && nextLinks && l.medial != 0:
			f = l.medial
		case nextLinks && !prevLinks && l.initial != 0:
			f = l.initial
		case prevLinks && l.final != 0:
			f = l.final
		default:
			f = l.isolated
		}
		out = append(out, f)
	}
	return string(out)
}

// linksAfter reports whether the letter at index i connects to its follower.
func linksAfter(runes []rune, i int) bool {
	if i < 0 || i >= len(runes) {
		return false
	}
	l, ok := letters[runes[i]]
	return ok && l.join == joinDual
}

// linksBefore reports whether the letter at index i connects to its
// predecessor.
func linksBefore(runes []rune, i int) bool {
	if i < 0 || i >= len(runes) {
		return false
	}
	l, ok := letters[runes[i]]
	return ok && l.join != joinNone
}

// reorder runs the Unicode bidi algorithm over the substituted text with an
// RTL base direction and emits the runs in visual order. Right-to-left runs
// are mirrored rune-wise; left-to-right runs (digits, Latin) stay as-is.
func reorder(s string) string {
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		panic(err)
	}
	ordering, err := p.Order()
	if err != nil {
		panic(err)
	}
	out := make([]rune, 0, len(s))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		text := []rune(run.String())
		if run.Direction() == bidi.RightToLeft {
			for l, r := 0, len(text)-1; l < r; l, r = l+1, r-1 {
				text[l], text[r] = text[r], text[l]
			}
		}
		out = append(out, text...)
	}
	return string(out)
}
