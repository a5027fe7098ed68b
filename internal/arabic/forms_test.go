package arabic

import "testing"

func TestIsArabicRangeBounds(t *testing.T) {
	arabicRunes := []rune{'\u0600', '\u06FF', 'م', '\uFB50', '\uFDFF', '\uFE70', '\uFEFF', 'ﻣ'}
	for _, r := range arabicRunes {
		if !IsArabic(r) {
			t.Errorf("IsArabic(%U) = false, want true", r)
		}
	}
	otherRunes := []rune{'A', '7', ' ', '\u05FF', '\u0700', '\uFB4F', '\uFE00', '\uFF00'}
	for _, r := range otherRunes {
		if IsArabic(r) {
			t.Errorf("IsArabic(%U) = true, want false", r)
		}
	}
}

func TestHasArabic(t *testing.T) {
	if !HasArabic("وصل رقم 123") {
		t.Fatal("mixed Arabic string must report true")
	}
	if HasArabic("Receipt 123") {
		t.Fatal("Latin-and-digit string must report false")
	}
	if HasArabic("") {
		t.Fatal("empty string must report false")
	}
}

func TestIsHarakaBounds(t *testing.T) {
	for _, r := range []rune{'\u064B', '\u0652', '\u0670'} {
		if !isHaraka(r) {
			t.Errorf("isHaraka(%U) = false, want true", r)
		}
	}
	for _, r := range []rune{'ي', '\u0653', 'م'} {
		if isHaraka(r) {
			t.Errorf("isHaraka(%U) = true, want false", r)
		}
	}
}
