package index

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		size     int
		overlap  int
		expected []string
	}{
		{
			name:     "empty input",
			text:     "",
			size:     10,
			overlap:  2,
			expected: nil,
		},
		{
			name:     "input shorter than size",
			text:     "hello",
			size:     10,
			overlap:  2,
			expected: []string{"hello"},
		},
		{
			name:     "input exactly size",
			text:     "hellohello",
			size:     10,
			overlap:  2,
			expected: []string{"hellohello"},
		},
		{
			name:     "two chunks with overlap",
			text:     "abcdefghij",
			size:     6,
			overlap:  2,
			expected: []string{"abcdef", "efghij"},
		},
		{
			name:     "three chunks with shorter tail",
			text:     "abcdefghijkl",
			size:     6,
			overlap:  2,
			expected: []string{"abcdef", "efghij", "ijkl"},
		},
		{
			name:     "zero overlap",
			text:     "abcdef",
			size:     2,
			overlap:  0,
			expected: []string{"ab", "cd", "ef"},
		},
		{
			name:     "overlap equal to size falls back to single chunk",
			text:     "abcdef",
			size:     3,
			overlap:  3,
			expected: []string{"abcdef"},
		},
		{
			name:     "non-positive size falls back to single chunk",
			text:     "abcdef",
			size:     0,
			overlap:  0,
			expected: []string{"abcdef"},
		},
		{
			name:     "multibyte runes split on rune boundaries",
			text:     "日本語のテキストです",
			size:     6,
			overlap:  2,
			expected: []string{"日本語のテキ", "テキストです"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.size, tt.overlap)

			if len(chunks) != len(tt.expected) {
				t.Fatalf("expected %d chunks, got %d", len(tt.expected), len(chunks))
			}
			for i, c := range chunks {
				if c.Text != tt.expected[i] {
					t.Errorf("chunk %d: expected %q, got %q", i, tt.expected[i], c.Text)
				}
			}
		})
	}
}

func TestSplitText_Reconstruction(t *testing.T) {
	base := "The sky is blue. Water is wet. Fire is hot. Grass is green. "
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
	}{
		{"default shape", strings.Repeat(base, 50), 1000, 200},
		{"tiny stride", "abcdefghijklmnopqrstuvwxyz", 5, 4},
		{"no overlap", strings.Repeat("0123456789", 7), 10, 0},
		{"unicode", strings.Repeat("五十音かきくけこ", 40), 30, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.size, tt.overlap)

			// Concatenating with the overlap removed from every chunk after
			// the first must reconstruct the input exactly.
			var rebuilt strings.Builder
			for i, c := range chunks {
				if i == 0 {
					rebuilt.WriteString(c.Text)
					continue
				}
				runes := []rune(c.Text)
				rebuilt.WriteString(string(runes[tt.overlap:]))
			}
			if rebuilt.String() != tt.text {
				t.Errorf("reconstruction mismatch: expected %d runes, got %d",
					len([]rune(tt.text)), len([]rune(rebuilt.String())))
			}

			// Every chunk except the last is exactly size runes; none exceed it.
			for i, c := range chunks {
				n := len([]rune(c.Text))
				if n > tt.size {
					t.Errorf("chunk %d: length %d exceeds size %d", i, n, tt.size)
				}
				if i < len(chunks)-1 && n != tt.size {
					t.Errorf("chunk %d: expected full size %d, got %d", i, tt.size, n)
				}
			}

			// Adjacent chunks share exactly the configured overlap.
			for i := 1; i < len(chunks); i++ {
				prev := []rune(chunks[i-1].Text)
				cur := []rune(chunks[i].Text)
				tail := string(prev[len(prev)-tt.overlap:])
				head := string(cur[:tt.overlap])
				if tail != head {
					t.Errorf("chunks %d/%d overlap mismatch: %q vs %q", i-1, i, tail, head)
				}
			}
		})
	}
}

func TestSplitText_Deterministic(t *testing.T) {
	text := strings.Repeat("all work and no play makes jack a dull boy. ", 100)

	first := SplitText(text, 250, 50)
	second := SplitText(text, 250, 50)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
