package music

import (
	"reflect"
	"testing"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		name     string
		mood     string
		wantKey  string
		wantLen  int
		wantTop  string
	}{
		{name: "direct mood bucket", mood: "happy", wantKey: "happy", wantLen: 2, wantTop: "Feel Good Hits"},
		{name: "joy remaps to happy", mood: "joy", wantKey: "happy", wantLen: 2, wantTop: "Feel Good Hits"},
		{name: "surprise remaps to excited", mood: "surprise", wantKey: "excited", wantLen: 2, wantTop: "Energy Boost"},
		{name: "disgust remaps to angry", mood: "disgust", wantKey: "angry", wantLen: 2, wantTop: "Anger Management"},
		{name: "upper case input", mood: "SADNESS", wantKey: "sad", wantLen: 2, wantTop: "Sad Songs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.mood)
			if len(got) != tt.wantLen {
				t.Fatalf("Recommend(%q) returned %d playlists, want %d", tt.mood, len(got), tt.wantLen)
			}
			if got[0].Title != tt.wantTop {
				t.Errorf("Recommend(%q)[0].Title = %q, want %q", tt.mood, got[0].Title, tt.wantTop)
			}
			if !reflect.DeepEqual(got, moodPlaylists[tt.wantKey]) {
				t.Errorf("Recommend(%q) != %q bucket", tt.mood, tt.wantKey)
			}
		})
	}
}

func TestRecommendUnknownMoodFallsBackToCalm(t *testing.T) {
	for _, mood := range []string{"bewildered", "", "????", "neutral"} {
		got := Recommend(mood)
		if len(got) == 0 {
			t.Fatalf("Recommend(%q) returned empty list", mood)
		}
		if !reflect.DeepEqual(got, moodPlaylists["calm"]) {
			t.Errorf("Recommend(%q) = %v, want calm bucket", mood, got)
		}
	}
}
