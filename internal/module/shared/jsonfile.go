package shared

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Keyed is a decoded file together with the first path element below the directory it was found in.
type Keyed[T any] struct {
	Key   string
	Value T
}

// ReadJSON decodes a whole JSON file into v.
func ReadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// ReadJSONWithComments drops everything after commentMarker on each line before decoding.
func ReadJSONWithComments(path string, commentMarker string, v interface{}) error {
	if commentMarker == "" {
		return ReadJSON(path, v)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var cleaned bytes.Buffer
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if i := strings.Index(line, commentMarker); i >= 0 {
			cleaned.WriteString(line[:i])
			if strings.HasSuffix(line, "\n") {
				cleaned.WriteByte('\n')
			}
			continue
		}
		cleaned.WriteString(line)
	}

	if err := json.Unmarshal(cleaned.Bytes(), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// ReadTxt returns the non-empty lines of a text file with '#' comments removed.
func ReadTxt(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

// AppendTxt appends lines to a text file, creating it when missing.
func AppendTxt(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes v indented. Map keys come out sorted; struct fields keep declaration order.
func WriteJSON(path string, v interface{}, indent int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", strings.Repeat(" ", indent))
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// MultiReadJSON decodes every file matching pattern below baseDir, sorted by path.
func MultiReadJSON[T any](baseDir string, pattern string, commentMarker string) ([]Keyed[T], error) {
	targets, err := filepath.Glob(filepath.Join(baseDir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(targets)

	results := make([]Keyed[T], 0, len(targets))
	for _, target := range targets {
		rel, err := filepath.Rel(baseDir, target)
		if err != nil {
			return nil, err
		}
		key, _, _ := strings.Cut(filepath.ToSlash(rel), "/")

		var value T
		if err := ReadJSONWithComments(target, commentMarker, &value); err != nil {
			return nil, err
		}
		results = append(results, Keyed[T]{Key: key, Value: value})
	}
	return results, nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
