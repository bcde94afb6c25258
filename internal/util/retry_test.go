package util

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/avast/retry-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry(t *testing.T) {
	t.Parallel()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()
		attempts := 0
		err := Retry(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		}, retry.Attempts(5), retry.Delay(0), retry.DelayType(retry.FixedDelay))
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up after the configured attempts", func(t *testing.T) {
		t.Parallel()
		attempts := 0
		err := Retry(context.Background(), func() error {
			attempts++
			return errors.New("permanent")
		}, retry.Attempts(2), retry.Delay(0), retry.DelayType(retry.FixedDelay))
		assert.Error(t, err)
		assert.Equal(t, 2, attempts)
	})
}

func TestRetryWithResult(t *testing.T) {
	t.Parallel()

	attempts := 0
	got, err := RetryWithResult(context.Background(), func() (int, error) {
		attempts++
		if attempts < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	}, retry.Attempts(3), retry.Delay(0), retry.DelayType(retry.FixedDelay))
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestIsAddrInUse(t *testing.T) {
	t.Parallel()

	assert.False(t, IsAddrInUse(nil))
	assert.False(t, IsAddrInUse(errors.New("connection refused")))
	assert.True(t, IsAddrInUse(syscall.EADDRINUSE))
	assert.True(t, IsAddrInUse(fmt.Errorf("listen: %w", syscall.EADDRINUSE)))
	assert.True(t, IsAddrInUse(errors.New("bind: address already in use")))
}
