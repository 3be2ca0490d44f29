package playback

import (
	"strings"
	"sync"
)

// SpokenText holds the text prefix believed spoken in the most recently
// finished clip. The engine is the only writer; the control surface reads it.
// Only the latest value is kept.
type SpokenText struct {
	mu   sync.RWMutex
	text string
}

// NewSpokenText creates an empty cell.
func NewSpokenText() *SpokenText {
	return &SpokenText{}
}

// Set overwrites the cell. Called after every playback attempt.
func (s *SpokenText) Set(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

// Get returns the latest value.
func (s *SpokenText) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// SpokenWords estimates which prefix of words was audibly rendered after
// elapsed seconds of a duration-second clip, by linear interpolation over the
// word count: floor(elapsed / (duration/len(words))) words.
//
// An elapsed time at or past the full duration always yields every word, so a
// completed clip never loses its last word to floating-point rounding.
func SpokenWords(elapsed, duration float64, words []string) []string {
	if len(words) == 0 {
		return nil
	}
	// Zero-duration audio spends no time per word, so nothing counts as spoken.
	if duration <= 0 || elapsed < 0 {
		return words[:0]
	}
	if elapsed >= duration {
		return words
	}

	wordDuration := duration / float64(len(words))
	n := int(elapsed / wordDuration)
	if n > len(words) {
		n = len(words)
	}
	return words[:n]
}

// JoinWords renders a word prefix the way the control surface reports it:
// joined by single spaces.
func JoinWords(words []string) string {
	return strings.Join(words, " ")
}
