package attendee

import "testing"

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"real name", "Rui Zheng", true},
		{"upper placeholder", "ALL", false},
		{"tbd", "TBD", false},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"n/a", "N/A", false},
		{"na", "na", false},
		{"none padded", "  None ", false},
		{"dash", "-", false},
		{"placeholder inside a real name", "None Smith", true},
		{"all as prefix", "Allison", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidName(tt.in); got != tt.want {
				t.Errorf("IsValidName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidName(t *testing.T) {
	if _, ok := ValidName(nil); ok {
		t.Error("nil name must be invalid")
	}
	tbd := "TBD"
	if _, ok := ValidName(&tbd); ok {
		t.Error("placeholder must be invalid")
	}
	padded := "  Mia  "
	if got, ok := ValidName(&padded); !ok || got != "Mia" {
		t.Errorf("expected trimmed Mia, got %q, %v", got, ok)
	}
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Li Wei", "li wei", true},
		{"Li Wei", "li wei (guest)", true},
		{"Li Wei", "Wei", true},
		{"Wei", "Li Wei", true},
		{"Li Wei", "Wang Fang", false},
		{"Li Wei", "", false},
	}
	for _, tt := range tests {
		if got := NamesMatch(tt.a, tt.b); got != tt.want {
			t.Errorf("NamesMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
