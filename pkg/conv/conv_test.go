package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigGet(t *testing.T) {
	m := map[string]any{"name": "topn", "n": 10, "ratio": 0.5, "flag": true}

	assert.Equal(t, "topn", ConfigGet(m, "name", ""))
	assert.Equal(t, "fallback", ConfigGet(m, "missing", "fallback"))
	assert.Equal(t, "fallback", ConfigGet(m, "n", "fallback"), "wrong type")
	assert.True(t, ConfigGet(m, "flag", false))
	assert.Equal(t, "x", ConfigGet[string](nil, "name", "x"))

	assert.Equal(t, int64(10), ConfigGetInt64(m, "n", 0))
	assert.Equal(t, int64(0), ConfigGetInt64(m, "ratio", 7), "0.5 truncates")
	assert.Equal(t, int64(7), ConfigGetInt64(m, "name", 7))
}

func TestSliceAny(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, SliceAnyToInt64([]any{1, 2.0, "3", "x", nil}))
	assert.Nil(t, SliceAnyToInt64("nope"))
}
