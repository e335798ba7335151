package format

import (
	"testing"
)

func TestDecimal(t *testing.T) {
	ok := []string{"0", "42000.50", "-1.2", " 19000000 ", "0.00000123", "1e-7", "31443729387.3123456789012345", "1e307", "-9.5e307", "1e-400"}
	for _, s := range ok {
		if _, err := Decimal(s); err != nil {
			t.Fatalf("Decimal(%q): %v", s, err)
		}
	}
	bad := []string{"", "  ", "NaN", "Inf", "abc", "1,5", "null", "1e400", "-1e308", "1e2147483647"}
	for _, s := range bad {
		if _, err := Decimal(s); err == nil {
			t.Fatalf("Decimal(%q): want error", s)
		}
	}
	if got, _ := Decimal(" 2.5 "); got != "2.5" {
		t.Fatalf("Decimal trims input, got %q", got)
	}
}

func TestOptionalDecimal(t *testing.T) {
	if OptionalDecimal("") != nil || OptionalDecimal("0") != nil || OptionalDecimal("0.000") != nil {
		t.Fatal("empty and zero must map to nil")
	}
	v := OptionalDecimal("21000000")
	if v == nil || *v != "21000000" {
		t.Fatalf("OptionalDecimal=%v", v)
	}
}

func TestPrice(t *testing.T) {
	if got := Price(42000.5); got != "42000.5" {
		t.Fatalf("Price=%q", got)
	}
	if got := Price(0.123456789123); got != "0.12345679" {
		t.Fatalf("Price=%q", got)
	}
}

func TestISOMillis(t *testing.T) {
	if got := ISOMillis(1700000000123); got != "2023-11-14T22:13:20.123Z" {
		t.Fatalf("ISOMillis=%q", got)
	}
}
