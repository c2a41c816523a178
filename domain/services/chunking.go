package services

import "strings"

// ChunkConfig controls the word-count-based chunker (spec.md §4.4 step 2).
type ChunkConfig struct {
	TargetWords int
	OverlapWords int
}

// MinWords and MaxWords bound an individual chunk relative to the target.
func (c ChunkConfig) MinWords() int { return int(0.8 * float64(c.TargetWords)) }
func (c ChunkConfig) MaxWords() int { return int(1.5 * float64(c.TargetWords)) }

// DefaultChunkConfig matches the teacher's default chunk size used when a
// caller doesn't specify one.
var DefaultChunkConfig = ChunkConfig{TargetWords: 500, OverlapWords: 50}

// Chunk splits content into overlapping windows of TargetWords words,
// advancing by TargetWords-OverlapWords each step so consecutive chunks
// share OverlapWords of context. A trailing remainder that would make a
// final chunk shorter than MinWords is folded into the chunk before it
// when the result stays within MaxWords; otherwise the final chunk (like
// the only chunk of a short text) can be shorter than MinWords.
func Chunk(content string, cfg ChunkConfig) []string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return nil
	}
	target := cfg.TargetWords
	if target <= 0 {
		target = DefaultChunkConfig.TargetWords
	}
	overlap := cfg.OverlapWords
	if overlap < 0 || overlap >= target {
		overlap = 0
	}
	stride := target - overlap
	if stride <= 0 {
		stride = target
	}
	maxWords := cfg.MaxWords()
	if maxWords <= 0 {
		maxWords = target
	}

	minWords := cfg.MinWords()

	var chunks []string
	for start := 0; start < len(words); start += stride {
		end := start + target
		if end > len(words) {
			end = len(words)
		}
		if rest := len(words) - end; rest > 0 && rest+overlap < minWords && len(words)-start <= maxWords {
			// Trailing remainder too short for its own chunk: fold it into
			// this one instead of emitting a tiny final chunk.
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
