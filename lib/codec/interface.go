package codec

import "errors"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ICodec is the interface for persistence codecs: an encoder producing a
// self-describing compressed blob, and the inverse decoder.
type ICodec interface {
	// Encode serializes the value and compresses the result. The returned
	// blob is self-describing: it carries the uncompressed length, so
	// Decode needs no out-of-band information.
	Encode(v interface{}) ([]byte, error)
	// Decode decompresses the blob (validating its length prefix) and
	// deserializes the result into the value pointed to by v.
	Decode(data []byte, v interface{}) error
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	// ErrSerialization reports an encode or decode failure of the binary
	// payload, e.g. a blob produced by an incompatible schema shape.
	ErrSerialization = errors.New("database serialization error")
	// ErrCompression reports a failure while producing the compressed block.
	ErrCompression = errors.New("database compression error")
	// ErrDecompression reports a corrupt or truncated compressed block.
	ErrDecompression = errors.New("database decompression error")
)
