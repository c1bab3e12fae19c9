package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-08-23", want: New(2025, time.August, 23)},
		{in: "2025-8-3", want: New(2025, time.August, 3)},
		{in: "not-a-date", wantErr: true},
		{in: "2025-13-01", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): want error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFirstOfMonth(t *testing.T) {
	d := MustParse("2025-08-23")
	if got, want := d.FirstOfMonth().String(), "2025-08-01"; got != want {
		t.Errorf("FirstOfMonth() = %q, want %q", got, want)
	}
	if !d.SameMonth(MustParse("2025-08-01")) {
		t.Error("SameMonth() = false, want true")
	}
	if d.SameMonth(MustParse("2025-09-01")) {
		t.Error("SameMonth() = true, want false")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := MustParse("2025-02-28")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-02-28"` {
		t.Fatalf("Marshal = %s", b)
	}
	var got Date
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Errorf("round trip = %v, want %v", got, d)
	}
}
