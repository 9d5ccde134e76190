package format

import (
	"fmt"
	"sort"
)

// Validate checks a header against the length of the data segment. The
// invariants run in order and fail fast:
//
//  1. every offset pair is sane: non-negative, begin <= end, within bounds;
//  2. sorted by begin, the ranges tile [0, dataLen) exactly, with no gaps
//     and no overlaps;
//  3. every range's length equals the dtype-aware byte length of its shape,
//     which also rejects negative dimensions and unpackable shapes.
//
// Duplicate names are rejected earlier, while decoding the header, so every
// caller hands unique entries here. No tensor view is ever constructed from
// a header that has not passed this check.
func Validate(entries []NamedTensorInfo, dataLen int64) error {
	for _, e := range entries {
		begin, end := e.Info.DataOffsets[0], e.Info.DataOffsets[1]
		if begin < 0 || begin > end || end > dataLen {
			return fmt.Errorf("%w: tensor %q: [%d, %d) against data segment of %d bytes",
				ErrInvalidOffset, e.Name, begin, end, dataLen)
		}
	}

	sorted := make([]NamedTensorInfo, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Info.DataOffsets[0] < sorted[j].Info.DataOffsets[0]
	})

	next := int64(0)
	for _, e := range sorted {
		begin, end := e.Info.DataOffsets[0], e.Info.DataOffsets[1]
		if begin != next {
			return fmt.Errorf("%w: tensor %q starts at %d, previous tensor ends at %d",
				ErrOffsetOverlapOrGap, e.Name, begin, next)
		}
		next = end
	}
	if next != dataLen {
		return fmt.Errorf("%w: tensors end at %d, data segment is %d bytes",
			ErrOffsetOverlapOrGap, next, dataLen)
	}

	for _, e := range entries {
		want, err := e.Info.DType.ByteLength(e.Info.Shape)
		if err != nil {
			return fmt.Errorf("tensor %q: %w", e.Name, err)
		}
		if got := e.Info.DataOffsets[1] - e.Info.DataOffsets[0]; got != want {
			return fmt.Errorf("%w: tensor %q: dtype %s shape %v needs %d bytes, offsets span %d",
				ErrTensorSizeMismatch, e.Name, e.Info.DType, e.Info.Shape, want, got)
		}
	}
	return nil
}
