// Binary encoding for cached match lists.
//
// Match list format (little-endian):
//
//	matchCount: uint16
//	per match:
//	  labelLen: uint16
//	  label:    [labelLen]byte
//	  score:    float64 (IEEE 754 bits, uint64)
package bbolt

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/corey/reel/internal/ports"
)

// scoreSize is the byte size of an encoded score.
const scoreSize = 8

// encodeMatches encodes a match list. A single buffer is pre-allocated to
// avoid repeated growth.
func encodeMatches(matches []ports.RawMatch) ([]byte, error) {
	if len(matches) > math.MaxUint16 {
		return nil, fmt.Errorf("too many matches: %d", len(matches))
	}
	totalSize := 2
	for _, m := range matches {
		totalSize += 2 + len(m.Label) + scoreSize
	}

	buf := make([]byte, totalSize)
	offset := 0

	binary.LittleEndian.PutUint16(buf[offset:], uint16(len(matches)))
	offset += 2

	for _, m := range matches {
		if len(m.Label) > math.MaxUint16 {
			return nil, fmt.Errorf("label too long: %d bytes", len(m.Label))
		}
		binary.LittleEndian.PutUint16(buf[offset:], uint16(len(m.Label)))
		offset += 2
		copy(buf[offset:], m.Label)
		offset += len(m.Label)
		binary.LittleEndian.PutUint64(buf[offset:], math.Float64bits(m.Score))
		offset += scoreSize
	}

	return buf, nil
}

// decodeMatches decodes a match list. Every read is bounds-checked to avoid
// panics on corrupt data.
func decodeMatches(data []byte) ([]ports.RawMatch, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("match list too short: %d bytes", len(data))
	}

	offset := 0
	count := int(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2

	matches := make([]ports.RawMatch, count)
	for i := 0; i < count; i++ {
		if offset+2 > len(data) {
			return nil, fmt.Errorf("truncated at match %d label length (offset %d)", i, offset)
		}
		labelLen := int(binary.LittleEndian.Uint16(data[offset:]))
		offset += 2

		if offset+labelLen+scoreSize > len(data) {
			return nil, fmt.Errorf("truncated at match %d (offset %d, need %d)", i, offset, labelLen+scoreSize)
		}
		matches[i].Label = string(data[offset : offset+labelLen])
		offset += labelLen
		matches[i].Score = math.Float64frombits(binary.LittleEndian.Uint64(data[offset:]))
		offset += scoreSize
	}

	if offset != len(data) {
		return nil, fmt.Errorf("trailing bytes after %d matches (offset %d, len %d)", count, offset, len(data))
	}
	return matches, nil
}
