package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayToString(t *testing.T) {
	assert.Equal(t, "000000000000002a", ArrayToString([]uint64{42}))
	assert.Equal(t, "0000002a00000001", ArrayToString([]uint32{42, 1}))
	assert.Equal(t, "ff00", ArrayToString([]uint8{0xff, 0}))
	assert.Equal(t, "", ArrayToString([]uint16{}))
}

func TestSplitEvenly(t *testing.T) {
	tests := []struct {
		name  string
		total uint64
		parts int
		want  []uint64
	}{
		{"exact", 12, 3, []uint64{4, 4, 4}},
		{"remainder to last", 10, 3, []uint64{3, 3, 4}},
		{"more parts than total", 2, 4, []uint64{0, 0, 0, 2}},
		{"single", 7, 1, []uint64{7}},
		{"zero total", 0, 2, []uint64{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEvenly(tt.total, tt.parts)
			require.Equal(t, tt.want, got)

			sum := uint64(0)
			for _, v := range got {
				sum += v
			}
			assert.Equal(t, tt.total, sum)
		})
	}

	assert.Nil(t, SplitEvenly(10, 0))
}
