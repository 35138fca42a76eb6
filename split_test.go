package chunkcache

import (
	"bytes"
	"strconv"
	"testing"
)

// TestSplitChunkCount: L bytes with budget C yield exactly ceil(L/C)
// chunks, all of size C except possibly the last.
func TestSplitChunkCount(t *testing.T) {
	cases := []struct {
		l, c, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{9, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{20, 10, 2},
		{21, 10, 3},
		{25, 10, 3},
		{1000, 7, 143},
	}
	for _, tc := range cases {
		payload := bytes.Repeat([]byte{'x'}, tc.l)
		chunks := splitChunks("item:t:k", "seed", payload, tc.c)
		if len(chunks) != tc.want {
			t.Fatalf("L=%d C=%d: got %d chunks, want %d", tc.l, tc.c, len(chunks), tc.want)
		}
		for i, ch := range chunks {
			wantLen := tc.c
			if i == len(chunks)-1 && tc.l%tc.c != 0 {
				wantLen = tc.l % tc.c
			}
			if len(ch.payload) != wantLen {
				t.Fatalf("L=%d C=%d chunk %d: len=%d want %d", tc.l, tc.c, i, len(ch.payload), wantLen)
			}
		}
	}
}

// TestSplitConcatenation: the chunks re-joined in index order reproduce
// the input byte-for-byte.
func TestSplitConcatenation(t *testing.T) {
	payload := make([]byte, 95)
	for i := range payload {
		payload[i] = byte(i)
	}
	chunks := splitChunks("item:t:k", "seed", payload, 10)

	var joined []byte
	for _, ch := range chunks {
		joined = append(joined, ch.payload...)
	}
	if !bytes.Equal(joined, payload) {
		t.Fatalf("concatenation does not reproduce the input")
	}
}

// TestSplitChildKeys: keys are <parent>:<seed>:<index> with a dense,
// 0-based index.
func TestSplitChildKeys(t *testing.T) {
	chunks := splitChunks("item:t:k", "abc123", bytes.Repeat([]byte{'x'}, 35), 10)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		want := "item:t:k:abc123:" + strconv.Itoa(i)
		if ch.key != want {
			t.Fatalf("chunk %d key = %q, want %q", i, ch.key, want)
		}
	}
}

// TestDefaultTokenUnique: consecutive default seeds differ and contain no
// separator characters.
func TestDefaultTokenUnique(t *testing.T) {
	a, b := defaultToken(), defaultToken()
	if a == "" || a == b {
		t.Fatalf("tokens not unique: %q %q", a, b)
	}
	for _, s := range []string{a, b} {
		if bytes.ContainsAny([]byte(s), ":-") {
			t.Fatalf("token %q contains separator characters", s)
		}
	}
}
