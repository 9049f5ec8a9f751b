package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePose(t *testing.T) {
	pose, err := parsePose("1.5, 2, -3, 90, -45")
	require.NoError(t, err)

	assert.Equal(t, 1.5, pose.Position.X)
	assert.Equal(t, -3.0, pose.Position.Z)
	assert.InDelta(t, math.Pi/2, pose.Yaw, 1e-12)
	assert.InDelta(t, -math.Pi/4, pose.Pitch, 1e-12)
}

func TestParsePose_Invalid(t *testing.T) {
	_, err := parsePose("1,2,3")
	assert.Error(t, err)

	_, err = parsePose("1,2,3,x,0")
	assert.Error(t, err)
}
