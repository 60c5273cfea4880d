package service

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

func TestCountdownCancelIsFirstPressOnly(t *testing.T) {
	cd := newCloseCountdown("chan-1", "mod-1", 5, clock.NewMock())

	assert.False(t, cd.Cancelled())
	assert.True(t, cd.Cancel())
	assert.True(t, cd.Cancelled())
	assert.False(t, cd.Cancel())
	assert.True(t, cd.Cancelled())
}

func TestCountdownClampsTinyDurations(t *testing.T) {
	cd := newCloseCountdown("chan-1", "mod-1", 0, clock.NewMock())
	assert.Equal(t, 2, cd.seconds)

	cd = newCloseCountdown("chan-1", "mod-1", -3, clock.NewMock())
	assert.Equal(t, 2, cd.seconds)

	cd = newCloseCountdown("chan-1", "mod-1", 10, clock.NewMock())
	assert.Equal(t, 10, cd.seconds)
}
