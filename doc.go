// Package binpack converts between Go values and flat byte buffers under an
// explicit schema and byte order.
//
// Three shapes are supported: homogeneous fixed-width integer sequences
// (EncodeScalars, DecodeScalars), row-major integer matrices (EncodeMatrix,
// DecodeMatrix), and records of mixed integer and length-prefixed string
// fields (Codec.EncodeRecord, Codec.EncodeRecordList and their decoders).
//
// Buffers carry no schema, count or delimiter. The decoder must be given the
// same Schema, Options and record count that the encoder used.
package binpack
