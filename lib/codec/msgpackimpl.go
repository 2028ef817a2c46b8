package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/vmihailenco/msgpack/v5"
)

// lenPrefixSize is the size of the little-endian uncompressed-length prefix
// that precedes the compressed block.
const lenPrefixSize = 8

// NewMsgpackCodec creates the default persistence codec: msgpack binary
// encoding followed by s2 block compression, with the uncompressed length
// prepended so decompression is self-describing.
func NewMsgpackCodec() ICodec {
	return &msgpackCodecImpl{}
}

type msgpackCodecImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c *msgpackCodecImpl) Encode(v interface{}) ([]byte, error) {
	raw, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	compressed := s2.Encode(nil, raw)
	blob := make([]byte, lenPrefixSize+len(compressed))
	binary.LittleEndian.PutUint64(blob[:lenPrefixSize], uint64(len(raw)))
	copy(blob[lenPrefixSize:], compressed)
	return blob, nil
}

func (c *msgpackCodecImpl) Decode(data []byte, v interface{}) error {
	if len(data) < lenPrefixSize {
		return fmt.Errorf("%w: blob shorter than length prefix (%d bytes)", ErrDecompression, len(data))
	}
	want := binary.LittleEndian.Uint64(data[:lenPrefixSize])

	raw, err := s2.Decode(nil, data[lenPrefixSize:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	if uint64(len(raw)) != want {
		return fmt.Errorf("%w: decompressed %d bytes, length prefix says %d", ErrDecompression, len(raw), want)
	}

	if err := msgpack.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}
