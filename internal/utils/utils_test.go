package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-admin-console/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestPointerHelpers(t *testing.T) {
	assert.Equal(t, 0, utils.Value[int](nil))
	assert.Equal(t, 7, utils.Value(utils.Ptr(7)))
	assert.Equal(t, "fallback", utils.ValueOr(nil, "fallback"))
	assert.Equal(t, "set", utils.ValueOr(utils.Ptr("set"), "fallback"))
}

func TestToStringSliceSkipsNonStrings(t *testing.T) {
	got := utils.ToStringSlice([]any{"view_dashboard", 12, nil, "manage_users"})
	assert.Equal(t, []string{"view_dashboard", "manage_users"}, got)
}
