// Package advice maps detected emotion labels to wellness suggestions.
package advice

import "strings"

// Disclaimer is appended to every advice string and echoed as a
// standalone field in analysis responses.
const Disclaimer = "This is general wellness advice and not a substitute for professional mental health support."

const disclaimerSuffix = " Remember, this is general wellness advice and not a substitute for professional mental health support."

const fallbackTemplate = "Take a moment to acknowledge your feelings. Remember that all emotions are valid and temporary."

// remap collapses the classifier's fine-grained vocabulary onto the
// canonical advice buckets. Labels not listed here pass through as-is.
// This table is intentionally separate from the music remap in
// internal/music; the two groupings disagree (e.g. "surprise") and are
// maintained independently.
var remap = map[string]string{
	"admiration":     "joy",
	"amusement":      "joy",
	"approval":       "content",
	"caring":         "joy",
	"curiosity":      "excited",
	"desire":         "excited",
	"disappointment": "sadness",
	"disapproval":    "anger",
	"embarrassment":  "anxious",
	"excitement":     "excited",
	"gratitude":      "content",
	"grief":          "sadness",
	"love":           "joy",
	"nervousness":    "anxious",
	"optimism":       "joy",
	"pride":          "content",
	"realization":    "surprise",
	"relief":         "calm",
	"remorse":        "sadness",
	"confusion":      "anxious",
}

// templates holds the advice text per canonical bucket.
var templates = map[string]string{
	"joy":      "You're feeling great! Consider sharing this positive energy with others or engaging in activities you love.",
	"sadness":  "It's okay to feel sad sometimes. Try gentle activities like listening to music, taking a walk, or talking to someone you trust.",
	"anger":    "Take a moment to breathe deeply. Consider what's causing this feeling and whether there's a constructive way to address it.",
	"fear":     "Fear is natural. Break down what's worrying you into smaller, manageable steps. You're stronger than you think.",
	"surprise": "Unexpected moments can be opportunities for growth. Take time to process what happened and how you feel about it.",
	"disgust":  "Strong negative feelings can be signals. Consider what boundaries you might need to set or changes you want to make.",
	"anxious":  "Try the 4-7-8 breathing technique: breathe in for 4, hold for 7, exhale for 8. Grounding exercises can also help.",
	"stressed": "Take a 5-minute break. Try progressive muscle relaxation or a short walk. Remember that stress is temporary.",
	"calm":     "You're in a peaceful state. This is a great time for reflection, planning, or enjoying the present moment.",
	"excited":  "Channel this positive energy into something meaningful. Consider activities that align with your goals and values.",
	"tired":    "Rest is important for your wellbeing. Consider what your body and mind need - sleep, nutrition, or a mental break.",
	"content":  "Contentment is a beautiful state. Take a moment to appreciate what's going well in your life right now.",
}

// For returns wellness advice for a detected emotion label. Pure lookup,
// cannot fail; every returned string ends with the disclaimer.
func For(label string) string {
	key := strings.ToLower(label)
	if mapped, ok := remap[key]; ok {
		key = mapped
	}

	text, ok := templates[key]
	if !ok {
		text = fallbackTemplate
	}
	return text + disclaimerSuffix
}
