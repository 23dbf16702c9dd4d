package pdfdoi

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"plain DOI in text",
			"Published in JACS. DOI: 10.1021/ja000001 (2020)",
			"10.1021/ja000001",
		},
		{
			"trailing punctuation trimmed",
			"see https://doi.org/10.1063/1.5000001.",
			"10.1063/1.5000001",
		},
		{"no DOI present", "Volume 12, Issue 3, pages 100-110", ""},
		{"too short to be real", "10.1/x and nothing else", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1021/ja000001", true},
		{"10.1063/1.5000001", true},
		{"11.1021/ja000001", false},
		{"10.1021/", false},
		{"10.1", false},
	}

	for _, tt := range tests {
		if got := IsValidDOI(tt.doi); got != tt.want {
			t.Errorf("IsValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"10.1021/JA000001", "10.1021/ja000001", true},
		{"https://doi.org/10.1021/ja000001", "10.1021/ja000001", true},
		{"doi:10.1021/ja000001", "10.1021/ja000001", true},
		{"10.1021/ja000001", "10.1021/ja000002", false},
	}

	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
