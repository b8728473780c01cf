// Package serialization frames an encoded to-do list for storage: a
// checksum, the payload length, and optional zlib compression.
//
// The envelope is itself protocol buffer wire format:
//
//	ChecksumAndData { string sha256_checksum=1; int64 payload_length=2;
//	                  bool payload_is_zlib_compressed=3; bytes payload=4 }
//
// The checksum covers the payload as stored, i.e. after compression.
package serialization

import (
	"bytes"
	"compress/zlib"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/amonks/immaculater/tdl"
)

// DefaultCompressionLevel trades a little size for speed.
const DefaultCompressionLevel = 2

// NoCompression stores the payload as is.
const NoCompression = 0

var (
	// ErrChecksumMismatch indicates a payload that does not match its checksum.
	ErrChecksumMismatch = fmt.Errorf("%w: checksum mismatch", tdl.ErrSerialization)

	// ErrLengthMismatch indicates a payload whose length disagrees with the
	// recorded length, or an empty payload.
	ErrLengthMismatch = fmt.Errorf("%w: payload length mismatch", tdl.ErrSerialization)

	// ErrCorrupt indicates an envelope or payload that cannot be decoded.
	ErrCorrupt = fmt.Errorf("%w: data corruption", tdl.ErrSerialization)
)

// Options configures Freeze.
type Options struct {
	// CompressionLevel is the zlib level, 1 through 9, or NoCompression.
	CompressionLevel int
}

// Freeze checks that list is well formed, encodes it, and frames it.
func Freeze(list *tdl.ToDoList, opts Options) ([]byte, error) {
	if opts.CompressionLevel < NoCompression || opts.CompressionLevel > zlib.BestCompression {
		return nil, fmt.Errorf("compression level %d is not between %d and %d", opts.CompressionLevel, NoCompression, zlib.BestCompression)
	}
	if err := list.CheckIsWellFormed(); err != nil {
		return nil, err
	}
	payload, err := list.MarshalBinary()
	if err != nil {
		return nil, err
	}

	compressed := opts.CompressionLevel != NoCompression
	if compressed {
		if payload, err = deflate(payload, opts.CompressionLevel); err != nil {
			return nil, err
		}
	}

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, checksum(payload))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(len(payload)))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(compressed))
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendBytes(b, payload)
	return b, nil
}

// Thaw verifies and decodes data written by Freeze. It resets opts.UIDs
// before decoding, so afterwards the factory issues identifiers above every
// stored one, and it checks the decoded list is well formed.
func Thaw(data []byte, opts tdl.Options) (*tdl.ToDoList, error) {
	payload, err := RawPayload(data)
	if err != nil {
		return nil, err
	}
	if opts.UIDs != nil {
		opts.UIDs.Reset()
	}
	list, err := tdl.Unmarshal(payload, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := list.CheckIsWellFormed(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return list, nil
}

type envelope struct {
	checksum   string
	length     int64
	compressed bool
	payload    []byte
}

// RawPayload verifies the envelope and returns the encoded list,
// decompressed.
func RawPayload(data []byte) ([]byte, error) {
	env, err := parseEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if env.length < 1 {
		return nil, fmt.Errorf("%w: payload_length=%d", ErrLengthMismatch, env.length)
	}
	if env.length != int64(len(env.payload)) {
		return nil, fmt.Errorf("%w: payload_length=%d but the payload has %d bytes", ErrLengthMismatch, env.length, len(env.payload))
	}
	if checksum(env.payload) != env.checksum {
		return nil, ErrChecksumMismatch
	}
	if !env.compressed {
		return env.payload, nil
	}
	payload, err := inflate(env.payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return payload, nil
}

func parseEnvelope(b []byte) (envelope, error) {
	var env envelope
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return envelope{}, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			env.checksum = string(v)
		case num == 2 && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			env.length = int64(v)
		case num == 3 && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			env.compressed = protowire.DecodeBool(v)
		case num == 4 && typ == protowire.BytesType:
			env.payload, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return envelope{}, protowire.ParseError(n)
		}
		b = b[n:]
	}
	return env, nil
}

func checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func deflate(payload []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(payload); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(payload []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
