package settings

import (
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type sample struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	require.NoError(t, s.Save("k", sample{Name: "a", Value: 1.5}))

	var got sample
	require.NoError(t, s.Load("k", &got))
	assert.Equal(t, sample{Name: "a", Value: 1.5}, got)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	var got sample
	assert.ErrorIs(t, s.Load("nope", &got), ErrMissing)
}

func TestStore_LoadMalformed(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	require.NoError(t, os.WriteFile(s.Path("k"), []byte("name: [unterminated"), 0644))

	var got sample
	assert.ErrorIs(t, s.Load("k", &got), ErrMalformed)

	require.NoError(t, os.WriteFile(s.Path("k"), []byte("  \n"), 0644))
	assert.ErrorIs(t, s.Load("k", &got), ErrMalformed)
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	s := NewStore(t.TempDir()+"/nested/dir", nil)
	require.NoError(t, s.Save("k", sample{Name: "x"}))
	_, err := os.Stat(s.Path("k"))
	assert.NoError(t, err)
}

func TestStore_WatchReportsWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewStore(t.TempDir(), nil)
	var calls atomic.Int32
	w, err := s.Watch("k", 10*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, s.Save("k", sample{Name: "first"}))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	// Other keys in the same directory are ignored.
	time.Sleep(50 * time.Millisecond)
	before := calls.Load()
	require.NoError(t, s.Save("other", sample{Name: "x"}))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, calls.Load())

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "close is idempotent")
}
