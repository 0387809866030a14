package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"-", "0"},
		{"", "0"},
		{"   ", "0"},
		{"12,3,4", "0"},
		{"abc", "0"},
		{" 98.765,43 ", "98765.43"},
		{"R$ 10,00", "10"},
		{"0,00", "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got := Parse(tc.in)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestFloat(t *testing.T) {
	if got := Float("1.234,56"); got != 1234.56 {
		t.Errorf("Expected 1234.56, got %v", got)
	}
}

func TestFormat(t *testing.T) {
	testCases := map[string]string{
		"1234.56":   "1.234,56",
		"0":         "0,00",
		"12":        "12,00",
		"1234567.8": "1.234.567,80",
		"-1500.5":   "-1.500,50",
		"100000":    "100.000,00",
	}

	for in, want := range testCases {
		if got := Format(decimal.RequireFromString(in)); got != want {
			t.Errorf("Format(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestLastPicksRightmostAmount(t *testing.T) {
	got, ok := Last("12.345.678/0001-90 SIEF 1.234,56 PARCELADO 98.765,43")
	if !ok || got != "98.765,43" {
		t.Errorf("Expected 98.765,43, got %q (ok=%v)", got, ok)
	}

	if _, ok := Last("12.345.678/0001-90 sem valor"); ok {
		t.Error("Expected no amount on a line without money")
	}
}

func TestPatternRejectsMalformed(t *testing.T) {
	for _, s := range []string{"12,3", "12,345", "1,2"} {
		if m := Pattern.FindString(s); m != "" {
			t.Errorf("Expected no match in %q, got %q", s, m)
		}
	}
}
