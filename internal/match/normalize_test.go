package match

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"Metformin", "metformin", true},
		{"COVID-19", "covid-19", true},
		{"Alzheimer", "Alzheimer's", false},
		{"", "", true},
	}
	for _, tc := range tests {
		if got := Equal(tc.a, tc.b); got != tc.expected {
			t.Fatalf("Equal(%q, %q) = %v, expected %v", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains("Early Biomarker improvement.", "biomarker") {
		t.Fatal("expected case-insensitive containment")
	}
	if Contains("Recruiting.", "reduced") {
		t.Fatal("unexpected match")
	}
}

func TestBlank(t *testing.T) {
	for _, in := range []string{"", " ", "\t\n"} {
		if !Blank(in) {
			t.Fatalf("expected %q to be blank", in)
		}
	}
	if Blank(" x ") {
		t.Fatal("expected non-blank")
	}
}
