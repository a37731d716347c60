package domain

// Pair represents a single question-answer flashcard entry.
type Pair struct {
	Question string
	Answer   string
}
