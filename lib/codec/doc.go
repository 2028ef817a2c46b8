// Package codec implements the persistence encoding for the keystore: a
// binary serialization of the database value wrapped in a compressed,
// self-describing block.
//
// The package focuses on:
//   - A small interface (ICodec) separating the persistence pipeline from
//     the store logic, so tests can substitute a codec
//   - A default implementation combining msgpack encoding with s2 block
//     compression and an 8-byte little-endian uncompressed-length prefix
//
// On-disk blob layout:
//
//	+----------------------+---------------------+
//	| uncompressed length  | s2 compressed block |
//	| 8 bytes, LE          | remainder           |
//	+----------------------+---------------------+
//
// There is no schema version header: a blob is only guaranteed decodable by
// the same build of the store types that produced it. Decode failures
// surface as ErrSerialization; corrupt or truncated blocks (including a
// length-prefix mismatch) as ErrDecompression.
package codec
