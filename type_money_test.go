package budget

import "testing"

func TestMoneyString(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{M(20000, "USD"), "$200.00"},
		{M(-1250, "USD"), "-$12.50"},
		{M(0, "EUR"), "€0.00"},
		{M(100, "JPY"), "¥100"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("%d %s String() = %q, want %q", tc.m.Minor(), tc.m.Currency(), got, tc.want)
		}
	}
}

func TestMoneyMajor(t *testing.T) {
	if got := M(1250, "USD").Major().String(); got != "12.5" {
		t.Errorf("Major = %s, want 12.5", got)
	}
	// JPY has no minor unit.
	if got := M(1250, "JPY").Major().String(); got != "1250" {
		t.Errorf("Major = %s, want 1250", got)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := M(1000, "EUR")
	b := M(-250, "EUR")
	if got := a.Add(b); got.Minor() != 750 || got.Currency() != "EUR" {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got.Minor() != 1250 {
		t.Errorf("Sub = %v", got)
	}
	if got := b.Abs(); got.Minor() != 250 {
		t.Errorf("Abs = %v", got)
	}
	if got := a.Neg(); got.Minor() != -1000 {
		t.Errorf("Neg = %v", got)
	}
}

func TestMoneyWeakZeroCurrency(t *testing.T) {
	// The zero Money carries no currency and adopts the other operand's.
	var zero Money
	if got := zero.Add(M(500, "EUR")); got.Currency() != "EUR" || got.Minor() != 500 {
		t.Errorf("zero + 5 EUR = %v", got)
	}
}

func TestMoneyMismatchedCurrenciesPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding EUR to USD did not panic")
		}
	}()
	M(1, "EUR").Add(M(1, "USD"))
}
