// Package snapio reads and writes the persisted forms of snapshots, chunks,
// and table definitions. Every object shares one envelope: a fixed header
// carrying a magic number, format version, and checksum, followed by a
// snappy-compressed JSON payload. Objects are immutable, so a location
// string always denotes the same bytes.
package snapio

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
)

var ErrMalformed = errors.New("malformed storage object")

const (
	envelopeMagic   uint32 = 0x53545241 // "STRA"
	envelopeVersion uint16 = 1
	headerSize             = 16 // magic(4) + version(2) + pad(2) + checksum(8)
)

// seal wraps a payload in the storage envelope.
func seal(payload []byte) []byte {
	compressed := snappy.Encode(nil, payload)
	out := make([]byte, headerSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:4], envelopeMagic)
	binary.LittleEndian.PutUint16(out[4:6], envelopeVersion)
	binary.LittleEndian.PutUint64(out[8:16], xxhash.Sum64(compressed))
	copy(out[headerSize:], compressed)
	return out
}

// unseal validates the envelope and returns the payload.
func unseal(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: truncated header (%d bytes)", ErrMalformed, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != envelopeMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrMalformed, magic)
	}
	if version := binary.LittleEndian.Uint16(data[4:6]); version != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, version)
	}
	compressed := data[headerSize:]
	if sum := xxhash.Sum64(compressed); sum != binary.LittleEndian.Uint64(data[8:16]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrMalformed)
	}
	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return payload, nil
}
