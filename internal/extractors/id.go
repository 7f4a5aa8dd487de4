package extractors

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/pi22by7/semcore/internal/types"
)

// conceptID builds a deterministic concept identifier from the inputs that
// describe where a concept came from. Two extraction runs over identical
// source produce identical IDs; this intentionally replaces a wall-clock
// based scheme, which would make concepts from the same input compare
// unequal across runs and break any caller that diffs or dedupes results.
func conceptID(filePath string, ct types.ConceptType, name string, start uint32) string {
	h := xxhash.New()
	_, _ = h.WriteString(filePath)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(string(ct))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(name)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.FormatUint(uint64(start), 10))
	return strconv.FormatUint(h.Sum64(), 16)
}
