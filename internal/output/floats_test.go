package output

import "testing"

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.0, "1"},
		{0.1234567, "0.123457"},
		{2.50, "2.5"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercentAndFixed(t *testing.T) {
	if got := Percent(0.3); got != "30%" {
		t.Errorf("Percent(0.3) = %q", got)
	}
	if got := Percent(1); got != "100%" {
		t.Errorf("Percent(1) = %q", got)
	}
	if got := Percent(2.0 / 3.0); got != "67%" {
		t.Errorf("Percent(2/3) = %q", got)
	}
	if got := Fixed1(13.25); got != "13.2" && got != "13.3" {
		t.Errorf("Fixed1(13.25) = %q", got)
	}
	if got := Fixed1(7); got != "7.0" {
		t.Errorf("Fixed1(7) = %q", got)
	}
}
