package arabic

// Contextual presentation forms (Arabic Presentation Forms-B) for the base
// Arabic letters. A zero entry means the letter has no form at that position;
// the shaper then falls back to final/isolated.
type forms struct {
	isolated rune
	final    rune
	initial  rune
	medial   rune
}

// joining class of a letter: dual letters connect on both sides, right
// letters connect only to the preceding letter, none never connects.
type joining int

const (
	joinNone joining = iota
	joinRight
	joinDual
)

type letter struct {
	join joining
	forms
}

var letters = map[rune]letter{
	'ء': {joinNone, forms{'ﺀ', 0, 0, 0}},                         // hamza
	'آ': {joinRight, forms{'ﺁ', 'ﺂ', 0, 0}},                 // alef madda
	'أ': {joinRight, forms{'ﺃ', 'ﺄ', 0, 0}},                 // alef hamza above
	'ؤ': {joinRight, forms{'ﺅ', 'ﺆ', 0, 0}},                 // waw hamza
	'إ': {joinRight, forms{'ﺇ', 'ﺈ', 0, 0}},                 // alef hamza below
	'ئ': {joinDual, forms{'ﺉ', 'ﺊ', 'ﺋ', 'ﺌ'}},    // yeh hamza
	'ا': {joinRight, forms{'ﺍ', 'ﺎ', 0, 0}},                 // alef
	'ب': {joinDual, forms{'ﺏ', 'ﺐ', 'ﺑ', 'ﺒ'}},    // beh
	'ة': {joinRight, forms{'ﺓ', 'ﺔ', 0, 0}},                 // teh marbuta
	'ت': {joinDual, forms{'ﺕ', 'ﺖ', 'ﺗ', 'ﺘ'}},    // teh
	'ث': {joinDual, forms{'ﺙ', 'ﺚ', 'ﺛ', 'ﺜ'}},    // theh
	'ج': {joinDual, forms{'ﺝ', 'ﺞ', 'ﺟ', 'ﺠ'}},    // jeem
	'ح': {joinDual, forms{'ﺡ', 'ﺢ', 'ﺣ', 'ﺤ'}},    // hah
	'خ': {joinDual, forms{'ﺥ', 'ﺦ', 'ﺧ', 'ﺨ'}},    // khah
	'د': {joinRight, forms{'ﺩ', 'ﺪ', 0, 0}},                 // dal
	'ذ': {joinRight, forms{'ﺫ', 'ﺬ', 0, 0}},                 // thal
	'ر': {joinRight, forms{'ﺭ', 'ﺮ', 0, 0}},                 // reh
	'ز': {joinRight, forms{'ﺯ', 'ﺰ', 0, 0}},                 // zain
	'س': {joinDual, forms{'ﺱ', 'ﺲ', 'ﺳ', 'ﺴ'}},    // seen
	'ش': {joinDual, forms{'ﺵ', 'ﺶ', 'ﺷ', 'ﺸ'}},    // sheen
	'ص': {joinDual, forms{'ﺹ', 'ﺺ', 'ﺻ', 'ﺼ'}},    // sad
	'ض': {joinDual, forms{'ﺽ', 'ﺾ', 'ﺿ', 'ﻀ'}},    // dad
	'ط': {joinDual, forms{'ﻁ', 'ﻂ', 'ﻃ', 'ﻄ'}},    // tah
	'ظ': {joinDual, forms{'ﻅ', 'ﻆ', 'ﻇ', 'ﻈ'}},    // zah
	'ع': {joinDual, forms{'ﻉ', 'ﻊ', 'ﻋ', 'ﻌ'}},    // ain
	'غ': {joinDual, forms{'ﻍ', 'ﻎ', 'ﻏ', 'ﻐ'}},    // ghain
	'ـ': {joinDual, forms{'ـ', 'ـ', 'ـ', 'ـ'}},    // tatweel
	'ف': {joinDual, forms{'ﻑ', 'ﻒ', 'ﻓ', 'ﻔ'}},    // feh
	'ق': {joinDual, forms{'ﻕ', 'ﻖ', 'ﻗ', 'ﻘ'}},    // qaf
	'ك': {joinDual, forms{'ﻙ', 'ﻚ', 'ﻛ', 'ﻜ'}},    // kaf
	'ل': {joinDual, forms{'ﻝ', 'ﻞ', 'ﻟ', 'ﻠ'}},    // lam
	'م': {joinDual, forms{'ﻡ', 'ﻢ', 'ﻣ', 'ﻤ'}},    // meem
	'ن': {joinDual, forms{'ﻥ', 'ﻦ', 'ﻧ', 'ﻨ'}},    // noon
	'ه': {joinDual, forms{'ﻩ', 'ﻪ', 'ﻫ', 'ﻬ'}},    // heh
	'و': {joinRight, forms{'ﻭ', 'ﻮ', 0, 0}},                 // waw
	'ى': {joinRight, forms{'ﻯ', 'ﻰ', 0, 0}},                 // alef maksura
	'ي': {joinDual, forms{'ﻱ', 'ﻲ', 'ﻳ', 'ﻴ'}},    // yeh
}

// Lam-alef pairs collapse into a single ligature glyph. Keyed by the alef
// variant following lam; value is {isolated, final}.
var lamAlef = map[rune][2]rune{
	'آ': {'ﻵ', 'ﻶ'},
	'أ': {'ﻷ', 'ﻸ'},
	'إ': {'ﻹ', 'ﻺ'},
	'ا': {'ﻻ', 'ﻼ'},
}

const lam = 'ل'

// isHaraka reports whether r is a short-vowel mark. Marks are stripped before
// shaping; the report fonts carry no mark positioning at presentation level.
func isHaraka(r rune) bool {
	return (r >= '\u064B' && r <= '\u0652') || r == '\u0670'
}

// IsArabic reports whether r belongs to the Arabic script ranges the shaper
// understands (base block or presentation forms).
func IsArabic(r rune) bool {
	if r >= '\u0600' && r <= '\u06FF' {
		return true
	}
	if r >= '\uFB50' && r <= '\uFDFF' {
		return true
	}
	return r >= '\uFE70' && r <= '\uFEFF'
}

// HasArabic reports whether s carries any Arabic codepoint at all. Purely
// numeric and Latin strings skip the shaper entirely.
func HasArabic(s string) bool {
	for _, r := range s {
		if IsArabic(r) {
			return true
		}
	}
	return false
}
