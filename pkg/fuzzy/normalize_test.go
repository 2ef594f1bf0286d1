package fuzzy

import (
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"strips official video bracket",
			"Artist - Song (Official Video)",
			"artist song",
		},
		{
			"strips lyrics bracket",
			"Artist - Song [Lyrics]",
			"artist song",
		},
		{
			"strips feat credit",
			"Artist - Song feat. Someone Else",
			"artist song",
		},
		{
			"strips ft credit in brackets",
			"Artist - Song (ft. Someone)",
			"artist song",
		},
		{
			"strips hashtags",
			"Artist - Song #shorts #music",
			"artist song",
		},
		{
			"strips diacritics",
			"Beyoncé - Déjà Vu",
			"beyonce deja vu",
		},
		{
			"keeps plain titles",
			"Artist Song",
			"artist song",
		},
		{
			"keeps 4k-free descriptive brackets",
			"Artist - Song (Acoustic)",
			"artist song acoustic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.NormalizeTitle(tt.input); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitle_Empty(t *testing.T) {
	n := NewNormalizer()

	if got := n.NormalizeTitle(""); got != "" {
		t.Errorf("Empty title should normalize to empty, got %q", got)
	}
	if got := n.NormalizeTitle("(Official Video)"); got != "" {
		t.Errorf("Pure decoration should normalize to empty, got %q", got)
	}
}
