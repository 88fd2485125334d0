package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPkgAlias(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"domain", "domain"},
		{"mapper-planner/sample/dtos", "dtos"},
		{"github.com/acme/shop/v3", "shop"},
		{"github.com/acme/v1", "v1"},
		{"v2", "v2"},
		{"github.com/acme/vnext", "vnext"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PkgAlias(tt.in))
		})
	}
}

func TestFirstAndSingle(t *testing.T) {
	v, ok := First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = First([]int(nil))
	assert.False(t, ok)

	v, ok = Single([]string{"only"})
	assert.True(t, ok)
	assert.Equal(t, "only", v)

	_, ok = Single([]string{"a", "b"})
	assert.False(t, ok)
}
