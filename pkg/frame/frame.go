// Package frame wraps a packed record list in a small self-checking
// envelope that carries the record count, so a reader does not need it
// out of band. The payload inside is left exactly as binpack produced it.
//
// Layout, little-endian:
//
//	magic "BPK1" (4) | flags (1) | count (4) | payload length (4) | payload | crc32 (4)
//
// The CRC (IEEE) covers everything after the magic up to the CRC itself.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/klauspost/compress/zstd"
)

const (
	Magic       = "BPK1"
	HeaderSize  = 4 + 1 + 4 + 4
	TrailerSize = 4

	// FlagZstd marks a zstd compressed payload.
	FlagZstd byte = 0x01

	knownFlags = FlagZstd

	// DefaultMaxPayload caps the decompressed payload size accepted by Open.
	DefaultMaxPayload = 256 << 20
)

var (
	ErrBadMagic       = errors.New("frame: bad magic")
	ErrTruncated      = errors.New("frame: truncated")
	ErrLengthMismatch = errors.New("frame: length mismatch")
	ErrChecksum       = errors.New("frame: crc mismatch")
	ErrFlags          = errors.New("frame: unknown flags")
	ErrTooLarge       = errors.New("frame: payload or count too large")
)

// Header describes a sealed frame.
type Header struct {
	Flags  byte
	Count  uint32
	Length uint32 // stored payload length
}

// Seal wraps payload and count. With FlagZstd the payload is compressed.
func Seal(payload []byte, count int, flags byte) ([]byte, error) {
	if flags&^knownFlags != 0 {
		return nil, fmt.Errorf("%w: %#x", ErrFlags, flags)
	}
	if count < 0 || uint64(count) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: count %d", ErrTooLarge, count)
	}
	body := payload
	if flags&FlagZstd != 0 {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, err
		}
		body = enc.EncodeAll(payload, nil)
		enc.Close()
	}
	if uint64(len(body)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload %d bytes", ErrTooLarge, len(body))
	}

	out := make([]byte, 0, HeaderSize+len(body)+TrailerSize)
	out = append(out, Magic...)
	out = append(out, flags)
	out = binary.LittleEndian.AppendUint32(out, uint32(count))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	out = append(out, body...)
	crc := crc32.ChecksumIEEE(out[len(Magic):])
	return binary.LittleEndian.AppendUint32(out, crc), nil
}

// ParseHeader reads the header without checking the payload.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrTruncated
	}
	if string(data[:len(Magic)]) != Magic {
		return Header{}, ErrBadMagic
	}
	h := Header{
		Flags:  data[4],
		Count:  binary.LittleEndian.Uint32(data[5:]),
		Length: binary.LittleEndian.Uint32(data[9:]),
	}
	if h.Flags&^knownFlags != 0 {
		return h, fmt.Errorf("%w: %#x", ErrFlags, h.Flags)
	}
	return h, nil
}

// Open verifies a frame and returns its decompressed payload and count.
// The returned payload never aliases data. Compressed payloads larger than
// DefaultMaxPayload once decompressed are rejected with ErrTooLarge.
func Open(data []byte) ([]byte, int, error) {
	return OpenLimit(data, DefaultMaxPayload)
}

// OpenLimit is Open with an explicit cap on the decompressed payload size.
func OpenLimit(data []byte, maxPayload uint64) ([]byte, int, error) {
	if maxPayload == 0 {
		return nil, 0, fmt.Errorf("%w: zero payload limit", ErrTooLarge)
	}
	h, err := ParseHeader(data)
	if err != nil {
		return nil, 0, err
	}
	end := uint64(HeaderSize) + uint64(h.Length)
	if uint64(len(data)) < end+TrailerSize {
		return nil, 0, ErrTruncated
	}
	if uint64(len(data)) != end+TrailerSize {
		return nil, 0, fmt.Errorf("%w: %d trailing bytes", ErrLengthMismatch, uint64(len(data))-end-TrailerSize)
	}
	want := binary.LittleEndian.Uint32(data[end:])
	if crc32.ChecksumIEEE(data[len(Magic):end]) != want {
		return nil, 0, ErrChecksum
	}
	body := data[HeaderSize:end]
	if h.Flags&FlagZstd != 0 {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxPayload))
		if err != nil {
			return nil, 0, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(body, nil)
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
			return nil, 0, fmt.Errorf("%w: decompressed payload exceeds %d bytes", ErrTooLarge, maxPayload)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("frame: zstd: %w", err)
		}
		if uint64(len(out)) > maxPayload {
			return nil, 0, fmt.Errorf("%w: decompressed payload exceeds %d bytes", ErrTooLarge, maxPayload)
		}
		return out, int(h.Count), nil
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, int(h.Count), nil
}
