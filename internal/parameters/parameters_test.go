package parameters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigString(t *testing.T) {
	params := NewFromConfigString("ab, margin=150ms,,max_depth=4,name=a=b")
	assert.Equal(t, Params{"ab": "", "margin": "150ms", "max_depth": "4", "name": "a=b"}, params)
	assert.Empty(t, NewFromConfigString(""))
}

func TestGetParamOr(t *testing.T) {
	params := NewFromConfigString("ab,off=false,margin=150ms,deadline=2500,max_depth=4,weight=-3,ratio=0.5,bad=x")

	ab, err := GetParamOr(params, "ab", false)
	require.NoError(t, err)
	assert.True(t, ab)
	off, err := GetParamOr(params, "off", true)
	require.NoError(t, err)
	assert.False(t, off)

	margin, err := GetParamOr(params, "margin", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, margin)
	deadline, err := GetParamOr(params, "deadline", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, deadline)

	depth, err := GetParamOr(params, "max_depth", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, depth)
	weight, err := GetParamOr(params, "weight", int32(1))
	require.NoError(t, err)
	assert.Equal(t, int32(-3), weight)
	ratio, err := GetParamOr(params, "ratio", float32(1))
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), ratio)

	missing, err := GetParamOr(params, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, missing)

	_, err = GetParamOr(params, "bad", 0)
	assert.Error(t, err)
	_, err = GetParamOr(params, "bad", time.Second)
	assert.Error(t, err)
	_, err = GetParamOr(params, "bad", true)
	assert.Error(t, err)
	_, err = GetParamOr(params, "weight", uint(0))
	assert.Error(t, err)
}

func TestPopParamOr(t *testing.T) {
	params := NewFromConfigString("ab,max_depth=3,zeta,alpha=1")
	depth, err := PopParamOr(params, "max_depth", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, depth)
	_, err = PopParamOr(params, "ab", false)
	require.NoError(t, err)

	err = CheckAllUsed(params)
	require.Error(t, err)
	assert.Equal(t, `unknown parameters "alpha", "zeta"`, err.Error())

	delete(params, "alpha")
	delete(params, "zeta")
	assert.NoError(t, CheckAllUsed(params))
}
