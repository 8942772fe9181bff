package util

import (
	"fmt"
	"strings"
	"unsafe"
)

// ArrayToString renders every element as zero-padded hex, full width, with no
// separators.
func ArrayToString[T uint8 | uint16 | uint32 | uint64](arr []T) string {
	var sb strings.Builder

	for _, v := range arr {
		bitWidth := int(unsafe.Sizeof(v) * 8)
		sb.WriteString(fmt.Sprintf("%0[1]*[2]x", bitWidth/4, v))
	}

	return sb.String()
}

// SplitEvenly divides total into parts shares. Every share gets total/parts
// and the last one also takes the remainder.
func SplitEvenly(total uint64, parts int) []uint64 {
	if parts <= 0 {
		return nil
	}

	shares := make([]uint64, parts)
	each := total / uint64(parts)

	for i := range shares {
		shares[i] = each
	}

	shares[parts-1] += total % uint64(parts)

	return shares
}
