package grade

import (
	"errors"
	"testing"
)

func TestValueLenient(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{"A", 0},
		{"a", 0},
		{"G", 6},
		{"g", 6},
		{"D", 3},
		{"Z", 0},
		{"", 0},
		{"AB", 0},
	}
	for _, c := range cases {
		if got := ValueLenient(c.code); got != c.want {
			t.Errorf("ValueLenient(%q) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestLetterLenient(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{0, "A"},
		{6, "G"},
		{3.5, "D"}, // half rounds away from zero
		{2.4, "C"},
		{2.6, "D"},
		{7, "A"},  // out of range falls back
		{-1, "A"},
		{5.6, "G"},
		// the raw value is checked, not the rounded one
		{6.2, "A"},
		{6.4, "A"},
		{-0.2, "A"},
	}
	for _, c := range cases {
		if got := LetterLenient(c.v); got != c.want {
			t.Errorf("LetterLenient(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestValueStrict(t *testing.T) {
	if v, err := Value("b"); err != nil || v != 1 {
		t.Fatalf("Value(b) = %d, %v; want 1, nil", v, err)
	}
	if _, err := Value("Z"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("Value(Z) err = %v, want ErrInvalidCode", err)
	}
	if _, err := Value(""); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("Value(\"\") err = %v, want ErrInvalidCode", err)
	}
}

func TestLetterStrict(t *testing.T) {
	if l, err := Letter(5.6); err != nil || l != "G" {
		t.Fatalf("Letter(5.6) = %q, %v; want G, nil", l, err)
	}
	if _, err := Letter(6.01); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Letter(6.01) err = %v, want ErrOutOfRange", err)
	}
	if _, err := Letter(-0.5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Letter(-0.5) err = %v, want ErrOutOfRange", err)
	}
}

func TestRoundTrip(t *testing.T) {
	for i, letter := range Letters {
		v, err := Value(letter)
		if err != nil || v != i {
			t.Fatalf("Value(%q) = %d, %v; want %d, nil", letter, v, err, i)
		}
		l, err := Letter(float64(i))
		if err != nil || l != letter {
			t.Fatalf("Letter(%d) = %q, %v; want %q, nil", i, l, err, letter)
		}
	}
}
