package main

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractCardNames(t *testing.T) {
	tests := []struct {
		input    string
		limit    int
		expected []string
	}{
		{"I love [Lightning Bolt]!", 5, []string{"Lightning Bolt"}},
		{"[Shock] beats [Lightning Bolt] beats [shock]", 5, []string{"Shock", "Lightning Bolt"}},
		{"[  Delver   of Secrets ]", 5, []string{"Delver of Secrets"}},
		{"[] [   ] no names here", 5, nil},
		{"no brackets at all", 5, nil},
		{"[a] [b] [c] [d] [e] [f]", 5, []string{"a", "b", "c", "d", "e"}},
		{"[a] [b] [c]", 2, []string{"a", "b"}},
		{"[[Black Lotus]]", 5, []string{"Black Lotus"}},
		{"[unclosed and [Opt]", 5, []string{"Opt"}},
	}

	for _, test := range tests {
		result := extractCardNames(test.input, test.limit)
		if !reflect.DeepEqual(result, test.expected) {
			t.Errorf("For input '%s', expected %q but got %q", test.input, test.expected, result)
		}
	}
}

func TestChunkString(t *testing.T) {
	if chunks := chunkString("   ", 10); chunks != nil {
		t.Errorf("expected no chunks for blank input, got %q", chunks)
	}

	short := "Short enough."
	if chunks := chunkString(short, 100); len(chunks) != 1 || chunks[0] != short {
		t.Errorf("expected a single chunk, got %q", chunks)
	}

	text := "First sentence here. Second sentence here. Third sentence here."
	chunks := chunkString(text, 30)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %q", chunks)
	}
	for _, chunk := range chunks {
		if len(chunk) > 30 {
			t.Errorf("chunk exceeds size: %q", chunk)
		}
	}
	if chunks[0] != "First sentence here." {
		t.Errorf("expected split on sentence boundary, got %q", chunks[0])
	}
	if joined := strings.Join(chunks, " "); joined != text {
		t.Errorf("chunks lost content: %q", joined)
	}

	// No natural boundary: hard split
	chunks = chunkString(strings.Repeat("x", 25), 10)
	if len(chunks) != 3 || chunks[2] != "xxxxx" {
		t.Errorf("expected hard split into 3 chunks, got %q", chunks)
	}
}

func TestChunkStringKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		input string
		size  int
	}{
		{strings.Repeat("é", 5), 5},
		{"Æther Vial Æther Spellbomb Æthersnipe", 7},
		{strings.Repeat("火", 10), 4},
	}

	for _, test := range tests {
		chunks := chunkString(test.input, test.size)
		for _, chunk := range chunks {
			if !utf8.ValidString(chunk) {
				t.Errorf("For input '%s', chunk %q is not valid UTF-8", test.input, chunk)
			}
			if len(chunk) > test.size {
				t.Errorf("For input '%s', chunk %q exceeds %d bytes", test.input, chunk, test.size)
			}
		}
		if joined := strings.Join(chunks, ""); strings.ReplaceAll(joined, " ", "") != strings.ReplaceAll(test.input, " ", "") {
			t.Errorf("For input '%s', chunks lost content: %q", test.input, chunks)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		limit    int
		expected string
	}{
		{"Opt", 10, "Opt"},
		{"Lightning Bolt", 5, "Ligh…"},
		{"Æther Vial", 3, "Æt…"},
	}

	for _, test := range tests {
		if result := truncate(test.input, test.limit); result != test.expected {
			t.Errorf("For input '%s', expected '%s' but got '%s'", test.input, test.expected, result)
		}
	}
}
