package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

// Kind discriminates the three entry shapes stored under a key.
type Kind byte

const (
	// KindDirect holds the serialized caller value inline.
	KindDirect Kind = 1
	// KindRef holds an ordered list of child keys instead of a value.
	KindRef Kind = 2
	// KindChunk holds one raw slice of a split value.
	KindChunk Kind = 3
)

var (
	ErrCorrupt = errors.New("chunkcache: corrupt entry")
	magic4     = [...]byte{'C', 'H', 'N', 'K'}
)

// Entry is the decoded form of a stored value. Kind selects which fields
// are meaningful: Payload for KindDirect/KindChunk, ChildKeys for KindRef.
// Expire and Tags are present on parent kinds only; chunk entries carry
// just the propagated creation time.
type Entry struct {
	Kind      Kind
	Created   int64 // unix nanos
	Expire    int64 // unix nanos; 0 = no expiry (parent kinds only)
	Tags      []string
	Payload   []byte
	ChildKeys []string
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Layouts (all integers big-endian):
//
//	header: magic(4) | ver(1) | kind(1)
//	direct: created(i64) | expire(i64) | ntags(u16) | (tlen u16 | tag)* | vlen(u32) | payload
//	ref:    created(i64) | expire(i64) | ntags(u16) | (tlen u16 | tag)* | nchild(u32) | (klen u16 | key)*
//	chunk:  created(i64) | vlen(u32) | payload
func EncodeDirect(created, expire int64, tags []string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(headerLen + 8 + 8 + 2 + tagsLen(tags) + 4 + len(payload))
	writeHeader(&buf, KindDirect)
	writeI64(&buf, created)
	writeI64(&buf, expire)
	writeTags(&buf, tags)
	writeU32(&buf, uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

func EncodeRef(created, expire int64, tags []string, childKeys []string) []byte {
	total := headerLen + 8 + 8 + 2 + tagsLen(tags) + 4
	for _, k := range childKeys {
		total += 2 + len(k)
	}
	var buf bytes.Buffer
	buf.Grow(total)
	writeHeader(&buf, KindRef)
	writeI64(&buf, created)
	writeI64(&buf, expire)
	writeTags(&buf, tags)
	writeU32(&buf, uint32(len(childKeys)))
	for _, k := range childKeys {
		if l := len(k); l == 0 || l > 0xFFFF {
			panic("chunkcache: invalid child key length")
		}
		writeU16(&buf, uint16(len(k)))
		buf.WriteString(k)
	}
	return buf.Bytes()
}

func EncodeChunk(created int64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(headerLen + 8 + 4 + len(payload))
	writeHeader(&buf, KindChunk)
	writeI64(&buf, created)
	writeU32(&buf, uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

// Decode parses any entry kind. Framing is strict: short buffers, bad
// magic/version, unknown kinds and trailing bytes all yield ErrCorrupt.
func Decode(b []byte) (Entry, error) {
	if len(b) < headerLen || !hasMagic(b) || b[4] != version {
		return Entry{}, ErrCorrupt
	}
	d := decoder{b: b, off: headerLen}
	e := Entry{Kind: Kind(b[5])}

	switch e.Kind {
	case KindDirect:
		e.Created = d.i64()
		e.Expire = d.i64()
		e.Tags = d.strings16(d.u16(), true)
		e.Payload = d.bytes(d.u32())
	case KindRef:
		e.Created = d.i64()
		e.Expire = d.i64()
		e.Tags = d.strings16(d.u16(), true)
		e.ChildKeys = d.strings16(d.u32(), false)
	case KindChunk:
		e.Created = d.i64()
		e.Payload = d.bytes(d.u32())
	default:
		return Entry{}, ErrCorrupt
	}
	if d.err || d.off != len(d.b) {
		return Entry{}, ErrCorrupt
	}
	return e, nil
}

const headerLen = 4 + 1 + 1

func writeHeader(buf *bytes.Buffer, k Kind) {
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(byte(k))
}

func writeI64(buf *bytes.Buffer, v int64) {
	var u8 [8]byte
	binary.BigEndian.PutUint64(u8[:], uint64(v))
	buf.Write(u8[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], v)
	buf.Write(u4[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var u2 [2]byte
	binary.BigEndian.PutUint16(u2[:], v)
	buf.Write(u2[:])
}

func tagsLen(tags []string) int {
	n := 0
	for _, t := range tags {
		n += 2 + len(t)
	}
	return n
}

func writeTags(buf *bytes.Buffer, tags []string) {
	if len(tags) > 0xFFFF {
		panic("chunkcache: too many tags")
	}
	writeU16(buf, uint16(len(tags)))
	for _, t := range tags {
		if len(t) > 0xFFFF {
			panic("chunkcache: tag too long")
		}
		writeU16(buf, uint16(len(t)))
		buf.WriteString(t)
	}
}

// decoder is a cursor with a sticky error; every accessor returns the
// zero value once the error is set, so call sites read linearly.
type decoder struct {
	b   []byte
	off int
	err bool
}

func (d *decoder) i64() int64 {
	if d.err || d.off+8 > len(d.b) {
		d.err = true
		return 0
	}
	v := int64(binary.BigEndian.Uint64(d.b[d.off : d.off+8]))
	d.off += 8
	return v
}

func (d *decoder) u32() int {
	if d.err || d.off+4 > len(d.b) {
		d.err = true
		return 0
	}
	v := int(binary.BigEndian.Uint32(d.b[d.off : d.off+4]))
	d.off += 4
	return v
}

func (d *decoder) u16() int {
	if d.err || d.off+2 > len(d.b) {
		d.err = true
		return 0
	}
	v := int(binary.BigEndian.Uint16(d.b[d.off : d.off+2]))
	d.off += 2
	return v
}

func (d *decoder) bytes(n int) []byte {
	if d.err || n < 0 || n > len(d.b)-d.off {
		d.err = true
		return nil
	}
	v := d.b[d.off : d.off+n]
	d.off += n
	return v
}

// strings16 reads n length-prefixed (u16) strings. allowEmpty permits
// zero-length members: tags are caller data and pass through verbatim,
// empty ones included; child keys are internally derived and an empty
// one is corruption.
func (d *decoder) strings16(n int, allowEmpty bool) []string {
	if d.err || n < 0 {
		d.err = true
		return nil
	}
	if n == 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		l := d.u16()
		if l == 0 && !allowEmpty {
			d.err = true
			return nil
		}
		b := d.bytes(l)
		if d.err {
			return nil
		}
		out = append(out, string(b))
	}
	return out
}
