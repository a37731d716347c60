package anki

import "unicode/utf16"

// checksumLimit caps how much of a field the checksum considers. Anki only
// hashes the first 1024 UTF-16 code units of the sort field; the stored field
// itself is never truncated.
const checksumLimit = 1024

// Checksum computes the field checksum Anki uses for duplicate detection.
// The input is interpreted as UTF-16 code units (so characters outside the
// basic multilingual plane contribute their two surrogate units, matching a
// JavaScript charCodeAt loop) and folded through a signed 32-bit
// accumulator as h = h*31 + unit. The result is the absolute value read as
// an unsigned 32-bit integer. The algorithm must stay bit-for-bit identical
// to the consumer's or its duplicate detection silently breaks.
func Checksum(text string) uint32 {
	units := utf16.Encode([]rune(text))
	if len(units) > checksumLimit {
		units = units[:checksumLimit]
	}

	var h int32
	for _, u := range units {
		h = (h << 5) - h + int32(u)
	}
	if h < 0 {
		// -int64 avoids the MinInt32 overflow; its absolute value still
		// fits in uint32.
		return uint32(-int64(h))
	}
	return uint32(h)
}
