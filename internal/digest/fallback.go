package digest

import "github.com/thebtf/threaddigest/pkg/models"

// fallbackLatest is how many of the most recent messages are included.
const fallbackLatest = 3

// FallbackIndices picks heuristic representatives for a batch where no
// cluster formed: the first message, the last message, the longest message
// and the latest three, in that order, without repeating an index.
// Duplicates are detected by row index only, so two equal messages at
// different rows can both be picked.
func FallbackIndices(messages []models.Message) []int {
	n := len(messages)
	if n == 0 {
		return nil
	}

	seen := make(map[int]bool)
	var out []int
	add := func(idx int) {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}

	add(0)
	add(n - 1)

	longest := 0
	for i, msg := range messages {
		if msg.Size() > messages[longest].Size() {
			longest = i
		}
	}
	add(longest)

	for i := max(0, n-fallbackLatest); i < n; i++ {
		add(i)
	}
	return out
}
