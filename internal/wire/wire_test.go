package wire

import (
	"bytes"
	"testing"
)

func TestDirectRoundTrip(t *testing.T) {
	b := EncodeDirect(111, 222, []string{"a", "bb"}, []byte("payload"))
	e, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if e.Kind != KindDirect || e.Created != 111 || e.Expire != 222 {
		t.Fatalf("header mismatch: %+v", e)
	}
	if len(e.Tags) != 2 || e.Tags[0] != "a" || e.Tags[1] != "bb" {
		t.Fatalf("tags mismatch: %v", e.Tags)
	}
	if !bytes.Equal(e.Payload, []byte("payload")) {
		t.Fatalf("payload mismatch: %q", e.Payload)
	}
}

func TestDirectEmptyPayloadAndTags(t *testing.T) {
	e, err := Decode(EncodeDirect(1, 0, nil, nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if e.Expire != 0 || e.Tags != nil || len(e.Payload) != 0 {
		t.Fatalf("unexpected: %+v", e)
	}
}

func TestRefRoundTrip(t *testing.T) {
	kids := []string{"item:t:k:s:0", "item:t:k:s:1", "item:t:k:s:10"}
	e, err := Decode(EncodeRef(5, 9, []string{"tag"}, kids))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if e.Kind != KindRef || len(e.ChildKeys) != 3 {
		t.Fatalf("unexpected: %+v", e)
	}
	// listed order is load-bearing and must survive the round trip
	for i, k := range kids {
		if e.ChildKeys[i] != k {
			t.Fatalf("child %d = %q, want %q", i, e.ChildKeys[i], k)
		}
	}
}

// Tags are caller data: zero-length members must decode, not corrupt.
func TestTagsMayBeEmpty(t *testing.T) {
	e, err := Decode(EncodeDirect(1, 0, []string{"", "x", ""}, []byte("p")))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(e.Tags) != 3 || e.Tags[0] != "" || e.Tags[1] != "x" || e.Tags[2] != "" {
		t.Fatalf("tags mismatch: %#v", e.Tags)
	}
}

// A zero-length child key is still corruption; only tags may be empty.
func TestRefRejectsEmptyChildKey(t *testing.T) {
	b := EncodeRef(1, 0, nil, []string{"k"})
	// zero the key's length prefix and drop its byte
	b[len(b)-3] = 0
	b[len(b)-2] = 0
	b = b[:len(b)-1]
	if _, err := Decode(b); err != ErrCorrupt {
		t.Fatalf("err=%v, want ErrCorrupt", err)
	}
}

func TestRefNoChildren(t *testing.T) {
	e, err := Decode(EncodeRef(5, 0, nil, nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if e.Kind != KindRef || e.ChildKeys != nil {
		t.Fatalf("unexpected: %+v", e)
	}
}

func TestChunkRoundTrip(t *testing.T) {
	e, err := Decode(EncodeChunk(42, []byte{0, 1, 2}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if e.Kind != KindChunk || e.Created != 42 || !bytes.Equal(e.Payload, []byte{0, 1, 2}) {
		t.Fatalf("unexpected: %+v", e)
	}
	if e.Expire != 0 || e.Tags != nil {
		t.Fatalf("chunk must carry no expire/tag state: %+v", e)
	}
}

// Decode must reject trailing bytes (strict framing).
func TestDecodeRejectsTrailing(t *testing.T) {
	for _, b := range [][]byte{
		EncodeDirect(1, 0, nil, []byte("x")),
		EncodeRef(1, 0, nil, []string{"k"}),
		EncodeChunk(1, []byte("x")),
	} {
		b = append(b, 0xDE, 0xAD)
		if _, err := Decode(b); err == nil {
			t.Fatalf("Decode should reject trailing bytes")
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("short"),
		[]byte("XXXX\x01\x01garbage-after-bad-magic"),
		{'C', 'H', 'N', 'K', 9, byte(KindDirect)}, // bad version
		{'C', 'H', 'N', 'K', 1, 77, 0, 0, 0, 0},   // unknown kind
		EncodeChunk(1, []byte("abc"))[:10],        // truncated
	}
	for i, b := range cases {
		if _, err := Decode(b); err != ErrCorrupt {
			t.Fatalf("case %d: err=%v, want ErrCorrupt", i, err)
		}
	}
}
