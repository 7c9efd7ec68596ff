package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	testCases := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"valid values pass through", 3, 20, 3, 20},
		{"zero page clamps to 1", 0, 10, 1, 10},
		{"negative page clamps to 1", -5, 10, 1, 10},
		{"zero size clamps to 1", 1, 0, 1, 1},
		{"negative size clamps to 1", 1, -3, 1, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, size := Clamp(tc.page, tc.size)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantPageSize, size)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 20, Offset(2, 20))
	assert.Equal(t, 16, Offset(3, 8))
}

func TestTotalPages(t *testing.T) {
	testCases := []struct {
		name  string
		total int64
		size  int
		want  int
	}{
		{"zero total still one page", 0, 20, 1},
		{"exact multiple", 40, 20, 2},
		{"remainder adds a page", 25, 20, 2},
		{"single short page", 5, 20, 1},
		{"page size one", 3, 1, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TotalPages(tc.total, tc.size))
		})
	}
}
