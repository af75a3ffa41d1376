package shard

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/pkg/errors"
)

// Wire format of an Index (token -> postings), modeled on zoekt's
// uvarint-framed map encoders:
//
//	byte(1)                  version
//	uvarint(len(index))
//	for token, postings in index:
//	  str(token)
//	  uvarint(len(postings))
//	  for docid, count in postings:
//	    uvarint(docid)
//	    uvarint(count)

const shardVersion = 1

type binaryWriter struct {
	buf bytes.Buffer
	enc [binary.MaxVarintLen64]byte
}

func (w *binaryWriter) varint(n int) {
	m := binary.PutUvarint(w.enc[:], uint64(n))
	w.buf.Write(w.enc[:m])
}

func (w *binaryWriter) str(s string) {
	w.varint(len(s))
	w.buf.WriteString(s)
}

// EncodeIndex serializes a shard's token->postings mapping.
func EncodeIndex(idx Index) ([]byte, error) {
	var w binaryWriter
	w.buf.WriteByte(shardVersion)
	w.varint(len(idx))
	for token, postings := range idx {
		w.str(token)
		w.varint(len(postings))
		for _, p := range postings {
			w.varint(int(p.DocID))
			w.varint(int(p.Count))
		}
	}
	return w.buf.Bytes(), nil
}

// DecodeIndex parses the bytes produced by EncodeIndex.
func DecodeIndex(b []byte) (Index, error) {
	r := binaryReader{b: b}
	if v := r.byt(); v != shardVersion {
		return nil, errors.Errorf("unsupported shard encoding version %d", v)
	}
	n := r.uvarint()
	idx := make(Index, n)
	for i := 0; i < n; i++ {
		token := r.str()
		postingsLen := r.uvarint()
		postings := make(Postings, postingsLen)
		for j := 0; j < postingsLen; j++ {
			postings[j] = Posting{
				DocID: uint32(r.uvarint()),
				Count: uint32(r.uvarint()),
			}
		}
		idx[token] = postings
	}
	if r.err != nil {
		return nil, errors.Wrap(r.err, "decode shard index")
	}
	return idx, nil
}

// URLMap maps docid -> url. It is written exactly once, at build
// completion.
type URLMap map[uint32]string

// EncodeURLMap serializes a URLMap with the same framing as EncodeIndex.
func EncodeURLMap(m URLMap) ([]byte, error) {
	var w binaryWriter
	w.buf.WriteByte(shardVersion)
	w.varint(len(m))
	for docid, url := range m {
		w.varint(int(docid))
		w.str(url)
	}
	return w.buf.Bytes(), nil
}

// DecodeURLMap parses the bytes produced by EncodeURLMap.
func DecodeURLMap(b []byte) (URLMap, error) {
	r := binaryReader{b: b}
	if v := r.byt(); v != shardVersion {
		return nil, errors.Errorf("unsupported url map encoding version %d", v)
	}
	n := r.uvarint()
	m := make(URLMap, n)
	for i := 0; i < n; i++ {
		docid := uint32(r.uvarint())
		m[docid] = r.str()
	}
	if r.err != nil {
		return nil, errors.Wrap(r.err, "decode url map")
	}
	return m, nil
}

// binaryReader reads the uvarint-framed fields written by binaryWriter. It
// points into the input slice to avoid copying strings; callers that need
// to retain the bytes past the lifetime of the buffer must copy first.
type binaryReader struct {
	b   []byte
	err error
}

func (r *binaryReader) uvarint() int {
	if r.err != nil {
		return 0
	}
	x, n := binary.Uvarint(r.b)
	if n <= 0 {
		r.err = errors.New("malformed shard data: bad uvarint")
		return 0
	}
	r.b = r.b[n:]
	return int(x)
}

func (r *binaryReader) str() string {
	if r.err != nil {
		return ""
	}
	l := r.uvarint()
	if r.err != nil || l < 0 || l > len(r.b) {
		r.err = errors.New("malformed shard data: bad string length")
		return ""
	}
	s := b2s(r.b[:l])
	r.b = r.b[l:]
	return s
}

func (r *binaryReader) byt() byte {
	if r.err != nil || len(r.b) < 1 {
		r.err = errors.New("malformed shard data: truncated")
		return 0
	}
	x := r.b[0]
	r.b = r.b[1:]
	return x
}

func b2s(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}
