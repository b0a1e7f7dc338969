package advice

import (
	"strings"
	"testing"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name         string
		label        string
		wantFragment string
	}{
		{
			name:         "canonical bucket",
			label:        "joy",
			wantFragment: "positive energy",
		},
		{
			name:         "remapped label uses bucket template",
			label:        "gratitude",
			wantFragment: "Contentment is a beautiful state",
		},
		{
			name:         "nervousness remaps to anxious",
			label:        "nervousness",
			wantFragment: "4-7-8 breathing",
		},
		{
			name:         "upper case input",
			label:        "ADMIRATION",
			wantFragment: "positive energy",
		},
		{
			name:         "unknown label gets generic template",
			label:        "bewilderment",
			wantFragment: "all emotions are valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := For(tt.label)
			if !strings.Contains(got, tt.wantFragment) {
				t.Errorf("For(%q) = %q, want fragment %q", tt.label, got, tt.wantFragment)
			}
			if !strings.HasSuffix(got, disclaimerSuffix) {
				t.Errorf("For(%q) does not end with the disclaimer", tt.label)
			}
		})
	}
}

func TestForAllRemappedLabels(t *testing.T) {
	for label, bucket := range remap {
		got := For(label)
		if !strings.Contains(got, templates[bucket]) {
			t.Errorf("For(%q) missing %q bucket template", label, bucket)
		}
		if !strings.HasSuffix(got, disclaimerSuffix) {
			t.Errorf("For(%q) does not end with the disclaimer", label)
		}
	}
}
