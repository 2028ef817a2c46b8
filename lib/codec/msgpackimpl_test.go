package codec

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name    string            `msgpack:"name"`
	Count   int64             `msgpack:"count"`
	Entries map[string]uint64 `msgpack:"entries"`
}

func testPayload() *payload {
	return &payload{
		Name:  "test",
		Count: -42,
		Entries: map[string]uint64{
			"alpha": 1,
			"beta":  2,
		},
	}
}

func TestMsgpackCodecRoundTrip(t *testing.T) {
	c := NewMsgpackCodec()

	blob, err := c.Encode(testPayload())
	require.NoError(t, err)
	require.Greater(t, len(blob), lenPrefixSize)

	var got payload
	require.NoError(t, c.Decode(blob, &got))
	assert.Equal(t, testPayload(), &got)
}

func TestMsgpackCodecCompresses(t *testing.T) {
	c := NewMsgpackCodec()

	v := &payload{Name: strings.Repeat("abcdefgh", 4096)}
	blob, err := c.Encode(v)
	require.NoError(t, err)

	// highly repetitive input must come out much smaller than the prefix
	// claims the raw encoding to be
	raw := binary.LittleEndian.Uint64(blob[:lenPrefixSize])
	assert.Less(t, uint64(len(blob)), raw/2)

	var got payload
	require.NoError(t, c.Decode(blob, &got))
	assert.Equal(t, v.Name, got.Name)
}

func TestMsgpackCodecDecodeErrors(t *testing.T) {
	c := NewMsgpackCodec()

	var got payload

	// too short for the length prefix
	assert.ErrorIs(t, c.Decode([]byte{1, 2, 3}, &got), ErrDecompression)

	// valid prefix, garbage block
	blob := make([]byte, lenPrefixSize+4)
	binary.LittleEndian.PutUint64(blob, 100)
	copy(blob[lenPrefixSize:], []byte{0xff, 0xff, 0xff, 0xff})
	assert.ErrorIs(t, c.Decode(blob, &got), ErrDecompression)

	// tampered length prefix on an otherwise valid blob
	blob, err := c.Encode(testPayload())
	require.NoError(t, err)
	binary.LittleEndian.PutUint64(blob[:lenPrefixSize], 1)
	assert.ErrorIs(t, c.Decode(blob, &got), ErrDecompression)

	// valid block that is not a msgpack encoding of the target
	blob, err = c.Encode("just a string")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Decode(blob, &got), ErrSerialization)
}

func TestMsgpackCodecEncodeUnsupportedValue(t *testing.T) {
	c := NewMsgpackCodec()

	_, err := c.Encode(func() {})
	assert.ErrorIs(t, err, ErrSerialization)
}
