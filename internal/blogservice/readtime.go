package blogservice

import "strings"

const wordsPerMinute = 200

// computeReadTime estimates reading time in minutes at 200 words per minute,
// rounded up, never below 1.
func computeReadTime(content string) int {
	words := len(strings.Fields(content))

	readTime := (words + wordsPerMinute - 1) / wordsPerMinute
	if readTime < 1 {
		readTime = 1
	}

	return readTime
}
