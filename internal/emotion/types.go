package emotion

// Result is the outcome of classifying one piece of text. Degraded is set
// when the inference API could not produce a real classification and the
// neutral fallback was substituted instead.
type Result struct {
	Label    string  `json:"label"`
	Score    float64 `json:"score"`
	Degraded bool    `json:"-"`
}

// prediction is a single label/score pair from the inference API.
type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
