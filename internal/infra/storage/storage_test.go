package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseMedium runs the shared contract every medium must satisfy.
func exerciseMedium(t *testing.T, m Medium) {
	t.Helper()

	t.Run("Get Missing Key", func(t *testing.T) {
		value, ok := m.Get("absent")
		assert.False(t, ok)
		assert.Nil(t, value)
		assert.False(t, m.Exists("absent"))
	})

	t.Run("Set Then Get", func(t *testing.T) {
		require.NoError(t, m.Set("db", []byte(`{"leads":[]}`)))
		value, ok := m.Get("db")
		require.True(t, ok)
		assert.Equal(t, []byte(`{"leads":[]}`), value)
		assert.True(t, m.Exists("db"))
	})

	t.Run("Set Overwrites", func(t *testing.T) {
		require.NoError(t, m.Set("db", []byte("v1")))
		require.NoError(t, m.Set("db", []byte("v2")))
		value, ok := m.Get("db")
		require.True(t, ok)
		assert.Equal(t, []byte("v2"), value)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, m.Set("gone", []byte("x")))
		require.NoError(t, m.Remove("gone"))
		assert.False(t, m.Exists("gone"))

		// Removing an absent key is not an error.
		assert.NoError(t, m.Remove("gone"))
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, m.Set("a", []byte("1")))
		require.NoError(t, m.Set("b", []byte("2")))
		require.NoError(t, m.Clear())
		assert.False(t, m.Exists("a"))
		assert.False(t, m.Exists("b"))
	})
}

func TestMemoryMedium(t *testing.T) {
	exerciseMedium(t, NewMemoryMedium())
}

func TestMemoryMediumCopiesValues(t *testing.T) {
	m := NewMemoryMedium()
	buf := []byte("original")
	require.NoError(t, m.Set("k", buf))

	buf[0] = 'X'
	stored, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("original"), stored)

	stored[0] = 'Y'
	again, _ := m.Get("k")
	assert.Equal(t, []byte("original"), again)
}

func TestFileMedium(t *testing.T) {
	m, err := NewFileMedium(t.TempDir())
	require.NoError(t, err)
	exerciseMedium(t, m)
}

func TestFileMediumSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	m1, err := NewFileMedium(dir)
	require.NoError(t, err)
	require.NoError(t, m1.Set("db", []byte("persisted")))

	m2, err := NewFileMedium(dir)
	require.NoError(t, err)
	value, ok := m2.Get("db")
	require.True(t, ok)
	assert.Equal(t, []byte("persisted"), value)
}
