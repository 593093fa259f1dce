package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"12.00", "12", true},
		{"12.50", "12.5", true},
		{" 2.50 ", "2.5", true},
		{"0.01", "0.01", true},
		{"-3.25", "-3.25", true},
		{"77.777777777777777777", "77.777777777777777777", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"1e18", "1000000000000000000", true},
		{"1e19", "", false},
		{"1e200000000", "", false},
		{"1e-30", "", false},
		{"1" + strings.Repeat("0", 38), "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyRendering(t *testing.T) {
	if got := MustParseMoney("12.00").String(); got != "12" {
		t.Fatalf("12.00 rendered as %q", got)
	}
	if got := MustParseMoney("12.50").String(); got != "12.5" {
		t.Fatalf("12.50 rendered as %q", got)
	}

	b, err := json.Marshal(map[string]Money{"whole": MustParseMoney("12.0"), "frac": MustParseMoney("12.50")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"frac":12.5,"whole":12}` {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	var v struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 10.10, "b": "3.5"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !v.A.Equal(MustParseMoney("10.1")) || !v.B.Equal(MustParseMoney("3.5")) {
		t.Fatalf("unexpected values a=%s b=%s", v.A, v.B)
	}
	if err := json.Unmarshal([]byte(`{"a": "x"}`), &v); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	// 0.1 added ten times drifts in binary floating point.
	total := Zero
	for i := 0; i < 10; i++ {
		total = total.Add(MustParseMoney("0.1"))
	}
	if !total.Equal(MoneyFromInt(1)) {
		t.Fatalf("expected exactly 1, got %s", total)
	}
	if got := MustParseMoney("50").Sub(MustParseMoney("70")); got.String() != "-20" {
		t.Fatalf("expected -20, got %s", got)
	}
}

func TestMoneyPercent(t *testing.T) {
	cases := []struct {
		spent, limit, want string
	}{
		{"70", "50", "140"},
		{"70", "100", "70"},
		{"50", "50", "100"},
		{"70", "77.77", "90.01"},
		{"1", "3", "33.33"},
		{"2", "3", "66.67"},
		{"25", "0", "0"},
		{"0", "0", "0"},
	}
	for _, tc := range cases {
		got := MustParseMoney(tc.spent).Percent(MustParseMoney(tc.limit))
		if got.String() != tc.want {
			t.Fatalf("%s of %s: expected %s, got %s", tc.spent, tc.limit, tc.want, got)
		}
	}
}

func TestSum(t *testing.T) {
	if got := Sum(); !got.IsZero() {
		t.Fatalf("empty sum should be zero, got %s", got)
	}
	got := Sum(MustParseMoney("40"), MustParseMoney("30.25"), MustParseMoney("0.75"))
	if got.String() != "71" {
		t.Fatalf("expected 71, got %s", got)
	}
}
