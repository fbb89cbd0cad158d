package ansible_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/h3ow3d/clusterctl/internal/ansible"
)

func TestVerbosityFlag(t *testing.T) {
	tests := []struct {
		count  int
		want   string
		wantOK bool
	}{
		{-1, "", false},
		{0, "", false},
		{1, "-v", true},
		{2, "-vv", true},
		{3, "-vvv", true},
		{4, "-vvvv", true},
		{5, "-vvvv", true},
		{40, "-vvvv", true},
	}
	for _, tc := range tests {
		got, ok := ansible.VerbosityFlag(tc.count)
		assert.Equal(t, tc.wantOK, ok, "count %d", tc.count)
		assert.Equal(t, tc.want, got, "count %d", tc.count)
	}
}

func TestVerbosityFlagSaturates(t *testing.T) {
	max, _ := ansible.VerbosityFlag(ansible.MaxVerbosity)
	for count := ansible.MaxVerbosity; count < 20; count++ {
		got, _ := ansible.VerbosityFlag(count)
		assert.Equal(t, max, got, "count %d", count)
	}
}
