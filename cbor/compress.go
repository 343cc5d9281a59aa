package cbor

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
)

// TagZstdBytes is a private tag this module uses to mark a Bytes payload
// that was zstd-compressed by an Encoder built with WithCompression. It is
// not part of spec's tag table (11/15/23); it is a supplement (see
// SPEC_FULL.md §9) and is registered as a default tag decoder so a plain
// Decoder transparently decompresses it without any special configuration.
const TagZstdBytes = 55800

// CompressionLevel selects a klauspost/compress/zstd encoder level.
type CompressionLevel = zstd.EncoderLevel

// Zstd is the zstd library's default compression level, for passing to
// WithCompression.
var Zstd = zstd.SpeedDefault

type compressionOption struct {
	threshold int
	level     CompressionLevel
}

func (c *compressionOption) compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.level))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	var buf bytes.Buffer
	enc.Reset(&buf)
	if _, err := enc.Write(data); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WithCompression configures e to compress the raw payload of Bytes and
// BufferStream items with zstd before framing, whenever the payload is at
// least thresholdBytes long and compression actually shrinks it. The
// compressed form is self-describing (wrapped in the TagZstdBytes tag), so
// a Decoder with the default tag registry reads either form transparently.
func (e *Encoder) WithCompression(level CompressionLevel, thresholdBytes int) *Encoder {
	e.compression = &compressionOption{threshold: thresholdBytes, level: level}
	return e
}

func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
