// Package music recommends curated playlists for a mood.
package music

import "strings"

// Playlist is a single curated playlist recommendation.
type Playlist struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// emotionMoods collapses classifier emotion labels onto playlist mood
// categories. Kept separate from the advice remap in internal/advice:
// the two tables group differently ("surprise" lands in "excited" here,
// "disgust" in "angry") and are not required to agree.
var emotionMoods = map[string]string{
	"joy":      "happy",
	"sadness":  "sad",
	"fear":     "anxious",
	"anger":    "angry",
	"surprise": "excited",
	"disgust":  "angry",
}

var moodPlaylists = map[string][]Playlist{
	"happy": {
		{Title: "Feel Good Hits", URL: "https://open.spotify.com/playlist/37i9dQZF1DX3rxVfibe1L0"},
		{Title: "Happy Pop", URL: "https://open.spotify.com/playlist/37i9dQZF1DXdPec7aLTmlC"},
	},
	"sad": {
		{Title: "Sad Songs", URL: "https://open.spotify.com/playlist/37i9dQZF1DX7qK8ma5wgG1"},
		{Title: "Melancholy Indie", URL: "https://open.spotify.com/playlist/37i9dQZF1DWX83CujKHHOn"},
	},
	"anxious": {
		{Title: "Calm & Peaceful", URL: "https://open.spotify.com/playlist/37i9dQZF1DWU0ScTcjJBdj"},
		{Title: "Focus Flow", URL: "https://open.spotify.com/playlist/37i9dQZF1DWZeKCadgRdKQ"},
	},
	"stressed": {
		{Title: "Stress Relief", URL: "https://open.spotify.com/playlist/37i9dQZF1DX4sWSpwq3LiO"},
		{Title: "Ambient Relaxation", URL: "https://open.spotify.com/playlist/37i9dQZF1DX0SM0LYsmbMT"},
	},
	"calm": {
		{Title: "Peaceful Piano", URL: "https://open.spotify.com/playlist/37i9dQZF1DX4sWSpwq3LiO"},
		{Title: "Nature Sounds", URL: "https://open.spotify.com/playlist/37i9dQZF1DWU0ScTcjJBdj"},
	},
	"excited": {
		{Title: "Energy Boost", URL: "https://open.spotify.com/playlist/37i9dQZF1DX76Wlfdnj7AP"},
		{Title: "Upbeat Pop", URL: "https://open.spotify.com/playlist/37i9dQZF1DXdPec7aLTmlC"},
	},
	"angry": {
		{Title: "Anger Management", URL: "https://open.spotify.com/playlist/37i9dQZF1DX4sWSpwq3LiO"},
		{Title: "Calming Classical", URL: "https://open.spotify.com/playlist/37i9dQZF1DWU0ScTcjJBdj"},
	},
	"energetic": {
		{Title: "Workout Hits", URL: "https://open.spotify.com/playlist/37i9dQZF1DX76Wlfdnj7AP"},
		{Title: "High Energy", URL: "https://open.spotify.com/playlist/37i9dQZF1DXdxcBWuJkbcy"},
	},
	"tired": {
		{Title: "Gentle Acoustic", URL: "https://open.spotify.com/playlist/37i9dQZF1DX0XUsuxWHRQd"},
		{Title: "Soft Rock", URL: "https://open.spotify.com/playlist/37i9dQZF1DWXRqgorJj26U"},
	},
	"content": {
		{Title: "Chill Vibes", URL: "https://open.spotify.com/playlist/37i9dQZF1DX0XUsuxWHRQd"},
		{Title: "Sunday Morning", URL: "https://open.spotify.com/playlist/37i9dQZF1DWU0ScTcjJBdj"},
	},
}

// Recommend returns curated playlists for a mood or emotion label. The
// result is never empty: unrecognized input falls back to the calm bucket.
func Recommend(mood string) []Playlist {
	key := strings.ToLower(mood)
	if mapped, ok := emotionMoods[key]; ok {
		key = mapped
	}

	playlists, ok := moodPlaylists[key]
	if !ok {
		playlists = moodPlaylists["calm"]
	}
	return playlists
}
