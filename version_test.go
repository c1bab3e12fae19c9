package budget

import (
	"encoding/json"
	"testing"
)

func TestParseVersion(t *testing.T) {
	testCases := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "A-86", want: V("A", 86)},
		{in: "B-1", want: V("B", 1)},
		{in: "Z-11429", want: V("Z", 11429)},
		{in: "a-1", wantErr: true},
		{in: "A-", wantErr: true},
		{in: "A86", wantErr: true},
		{in: "AB-1", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseVersion(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseVersion(%q): want error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVersion(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVersion(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	b, err := json.Marshal(V("A", 86))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"A-86"` {
		t.Fatalf("Marshal = %s, want \"A-86\"", b)
	}
	var v Version
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatal(err)
	}
	if v != V("A", 86) {
		t.Errorf("round trip = %v", v)
	}
	if err := json.Unmarshal([]byte(`"86-A"`), &v); err == nil {
		t.Error("Unmarshal of invalid stamp: want error")
	}
}
