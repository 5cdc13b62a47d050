package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

// randSeq replays a fixed sequence of draws, repeating the last one.
func randSeq(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func TestDo(t *testing.T) {
	t.Run("Success Passes Result Through", func(t *testing.T) {
		client := NewClient(Config{Rand: randSeq(0.99), Sleep: noSleep})

		result, err := Do(context.Background(), client, func() (string, error) {
			return "ok", nil
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
	})

	t.Run("Error Rate One Always Fails With Network Error", func(t *testing.T) {
		client := NewClient(Config{Rand: randSeq(0.3), Sleep: noSleep})
		client.SetErrorRate(1)

		called := false
		_, err := Do(context.Background(), client, func() (int, error) {
			called = true
			return 1, nil
		}, nil)

		require.Error(t, err)
		assert.False(t, called, "operation must not run when the transport fails")

		apiErr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeNetwork, apiErr.Code)
		assert.Equal(t, "simulated network error", apiErr.Message)
		assert.True(t, apiErr.Retryable())
	})

	t.Run("Failure Status Follows Second Draw", func(t *testing.T) {
		client := NewClient(Config{Rand: randSeq(0.0, 0.9), Sleep: noSleep})
		client.SetErrorRate(1)

		_, err := Do(context.Background(), client, func() (int, error) { return 0, nil }, nil)
		apiErr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, 503, apiErr.Status)

		client = NewClient(Config{Rand: randSeq(0.0, 0.2), Sleep: noSleep})
		client.SetErrorRate(1)

		_, err = Do(context.Background(), client, func() (int, error) { return 0, nil }, nil)
		apiErr, ok = AsError(err)
		require.True(t, ok)
		assert.Equal(t, 500, apiErr.Status)
	})

	t.Run("Error Rate Zero Never Fails", func(t *testing.T) {
		client := NewClient(Config{Rand: randSeq(0.0), Sleep: noSleep})
		client.SetErrorRate(0)

		for i := 0; i < 20; i++ {
			result, err := Do(context.Background(), client, func() (int, error) { return i, nil }, nil)
			require.NoError(t, err)
			assert.Equal(t, i, result)
		}
	})

	t.Run("Per Call Error Rate Overrides Client Rate", func(t *testing.T) {
		client := NewClient(Config{Rand: randSeq(0.5), Sleep: noSleep})
		client.SetErrorRate(1)

		zero := 0.0
		result, err := Do(context.Background(), client, func() (string, error) {
			return "through", nil
		}, &Options{ErrorRate: &zero})

		require.NoError(t, err)
		assert.Equal(t, "through", result)
	})

	t.Run("Operation Error Is Classified Internal", func(t *testing.T) {
		client := NewClient(Config{Rand: randSeq(0.99), Sleep: noSleep})

		_, err := Do(context.Background(), client, func() (int, error) {
			return 0, errors.New("boom")
		}, nil)

		apiErr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeInternal, apiErr.Code)
		assert.Equal(t, "boom", apiErr.Message)
	})

	t.Run("Classified Operation Error Passes Unchanged", func(t *testing.T) {
		client := NewClient(Config{Rand: randSeq(0.99), Sleep: noSleep})

		_, err := Do(context.Background(), client, func() (int, error) {
			return 0, NotFound("lead not found")
		}, nil)

		apiErr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeNotFound, apiErr.Code)
		assert.Equal(t, 404, apiErr.Status)
		assert.False(t, apiErr.Retryable())
	})

	t.Run("Skip Delay Bypasses Sleep", func(t *testing.T) {
		slept := false
		client := NewClient(Config{
			Rand:  randSeq(0.99),
			Sleep: func(ctx context.Context, d time.Duration) error { slept = true; return nil },
		})

		_, err := Do(context.Background(), client, func() (int, error) { return 1, nil }, &Options{SkipDelay: true})
		require.NoError(t, err)
		assert.False(t, slept)

		_, err = Do(context.Background(), client, func() (int, error) { return 1, nil }, nil)
		require.NoError(t, err)
		assert.True(t, slept)
	})

	t.Run("Canceled Context Aborts During Delay", func(t *testing.T) {
		client := NewClient(Config{Rand: randSeq(0.99)})
		client.SetDelayRange(time.Hour, time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Do(ctx, client, func() (int, error) { return 1, nil }, nil)
		apiErr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeInternal, apiErr.Code)
	})
}

func TestClientKnobs(t *testing.T) {
	t.Run("SetErrorRate Clamps To Unit Interval", func(t *testing.T) {
		client := NewClient(Config{})

		client.SetErrorRate(-0.5)
		assert.Zero(t, client.ErrorRate())

		client.SetErrorRate(3)
		assert.Equal(t, 1.0, client.ErrorRate())

		client.SetErrorRate(0.25)
		assert.Equal(t, 0.25, client.ErrorRate())
	})

	t.Run("SetDelayRange Clamps Min And Max", func(t *testing.T) {
		client := NewClient(Config{})

		client.SetDelayRange(-time.Second, 2*time.Second)
		min, max := client.DelayRange()
		assert.Equal(t, time.Duration(0), min)
		assert.Equal(t, 2*time.Second, max)

		client.SetDelayRange(5*time.Second, time.Second)
		min, max = client.DelayRange()
		assert.Equal(t, 5*time.Second, min)
		assert.Equal(t, 5*time.Second, max)
	})

	t.Run("Defaults", func(t *testing.T) {
		client := NewClient(Config{})
		assert.Equal(t, DefaultErrorRate, client.ErrorRate())
		min, max := client.DelayRange()
		assert.Equal(t, DefaultMinDelay, min)
		assert.Equal(t, DefaultMaxDelay, max)
	})

	t.Run("Explicit Zero Error Rate Is Kept", func(t *testing.T) {
		rate := 0.0
		client := NewClient(Config{
			ErrorRate: &rate,
			Rand:      randSeq(0.01),
			Sleep:     noSleep,
		})

		assert.Zero(t, client.ErrorRate())

		result, err := Do(context.Background(), client, func() (string, error) {
			return "ok", nil
		}, nil)
		require.NoError(t, err, "a deterministic transport must never inject failures")
		assert.Equal(t, "ok", result)
	})

	t.Run("Explicit Zero Min Delay Is Kept", func(t *testing.T) {
		zero := time.Duration(0)
		client := NewClient(Config{MinDelay: &zero})

		min, max := client.DelayRange()
		assert.Equal(t, time.Duration(0), min)
		assert.Equal(t, DefaultMaxDelay, max)
	})

	t.Run("Min Delay Above Unset Max Raises Max", func(t *testing.T) {
		min := 2 * time.Second
		client := NewClient(Config{MinDelay: &min})

		gotMin, gotMax := client.DelayRange()
		assert.Equal(t, 2*time.Second, gotMin)
		assert.Equal(t, 2*time.Second, gotMax)
	})
}
