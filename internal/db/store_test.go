package db

import "testing"

func TestChunkStrings(t *testing.T) {
	values := make([]string, 2500)
	for i := range values {
		values[i] = "v"
	}
	chunks := chunkStrings(values, 1000)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 1000 || len(chunks[1]) != 1000 || len(chunks[2]) != 500 {
		t.Fatalf("unexpected chunk sizes %d/%d/%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}

func TestChunkStringsEmpty(t *testing.T) {
	if chunks := chunkStrings(nil, 1000); chunks != nil {
		t.Fatalf("expected no chunks for empty input")
	}
}
