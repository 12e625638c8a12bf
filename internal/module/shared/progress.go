package shared

import (
	"fmt"
	"io"
)

// Chunks splits items into consecutive slices of at most size elements.
func Chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var chunks [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

// MapChunked calls f once per chunk, in order, printing "...N%" to progress after each chunk.
func MapChunked[T any, R any](items []T, size int, progress io.Writer, f func([]T) R) []R {
	chunks := Chunks(items, size)
	results := make([]R, 0, len(chunks))
	done := 0
	for _, chunk := range chunks {
		results = append(results, f(chunk))
		done += len(chunk)
		if progress != nil {
			fmt.Fprintf(progress, "...%d%%", done*100/len(items))
		}
	}
	if progress != nil {
		fmt.Fprintln(progress)
	}
	return results
}
