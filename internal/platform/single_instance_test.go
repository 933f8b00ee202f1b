package platform

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueName(t *testing.T) string {
	return fmt.Sprintf("%s-%d", t.Name(), time.Now().UnixNano())
}

func TestPortFromNameIsStable(t *testing.T) {
	first := portFromName("TimeDeck")
	assert.Equal(t, first, portFromName("TimeDeck"))
	assert.GreaterOrEqual(t, first, 20000)
	assert.LessOrEqual(t, first, 39999)
}

func TestSecondAcquireFails(t *testing.T) {
	name := uniqueName(t)
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port for %s unavailable: %v", name, err)
	}
	defer guard.Release()

	_, err = AcquireSingleInstance(name)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestActivateRunningCallsOnShow(t *testing.T) {
	name := uniqueName(t)
	guard, err := AcquireSingleInstance(name)
	if err != nil {
		t.Skipf("port for %s unavailable: %v", name, err)
	}

	var shows atomic.Int32
	guard.Serve(func() { shows.Add(1) })

	require.NoError(t, ActivateRunning(name))
	require.Eventually(t, func() bool { return shows.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, guard.Release())
	assert.Error(t, ActivateRunning(name))
}

func TestNilGuard(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Equal(t, "", guard.Address())
	guard.Serve(nil)
}
