// FILE: lixenwraith/runlog/logger_test.go
package runlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// createTestHandle creates a handle writing to <tmp>/test.log with a fake clock
func createTestHandle(t *testing.T) (*Handle, *fakeClock, string) {
	t.Helper()
	tmpDir := t.TempDir()
	clock := newFakeClock()

	h := NewRegistry(WithClock(clock.Now)).Get("test")
	require.NoError(t, h.SwitchOutput(tmpDir))
	t.Cleanup(func() { _ = h.Close() })

	return h, clock, tmpDir
}

// readLines returns the non-empty lines of a log file
func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// captureConsole swaps the console writers for buffers until the test ends
func captureConsole(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	origOut, origErr := stdoutWriter, stderrWriter
	stdoutWriter, stderrWriter = stdout, stderr
	t.Cleanup(func() {
		stdoutWriter, stderrWriter = origOut, origErr
	})
	return stdout, stderr
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry()

	t.Run("same name returns same handle", func(t *testing.T) {
		a := reg.Get("lanes")
		b := reg.Get("lanes")
		assert.Same(t, a, b)
	})

	t.Run("empty name resolves to default", func(t *testing.T) {
		h := reg.Get("")
		assert.Equal(t, DefaultName, h.Name())
		assert.Same(t, h, reg.Get(DefaultName))
	})

	t.Run("distinct names are independent", func(t *testing.T) {
		a := reg.Get("alpha")
		b := reg.Get("beta")
		assert.NotSame(t, a, b)

		a.StartTimer()
		assert.True(t, a.State().TimerRunning)
		assert.False(t, b.State().TimerRunning)
	})

	t.Run("floor is debug", func(t *testing.T) {
		assert.Equal(t, LevelDebug, reg.Get("floor").Level())
	})

	assert.Equal(t, []string{"alpha", "beta", DefaultName, "floor", "lanes"}, reg.Names())
}

func TestRegistriesAreIsolated(t *testing.T) {
	a := NewRegistry().Get("shared")
	b := NewRegistry().Get("shared")
	assert.NotSame(t, a, b)
}

func TestDefaultRegistry(t *testing.T) {
	h := GetLogger("default-registry-test")
	assert.Same(t, h, Default().Get("default-registry-test"))
	assert.Same(t, GetLogger(""), GetLogger(DefaultName))
}

func TestRegistryClose(t *testing.T) {
	tmpDir := t.TempDir()
	reg := NewRegistry()

	first := reg.Get("first")
	second := reg.Get("second")
	require.NoError(t, first.SwitchOutput(tmpDir))
	require.NoError(t, second.SwitchOutput(tmpDir))

	require.NoError(t, reg.Close())
	assert.Equal(t, 0, first.State().FileSinks)
	assert.Equal(t, 0, second.State().FileSinks)
	assert.Equal(t, []string{"first", "second"}, reg.Names())
}

func TestHandleLevels(t *testing.T) {
	h, _, tmpDir := createTestHandle(t)

	h.Debug("debug message")
	h.Info("info message")
	h.Warn("warn message")
	h.Error("error message")

	lines := readLines(t, filepath.Join(tmpDir, "test.log"))
	require.Len(t, lines, 5)
	assert.Equal(t, "[2025-03-14 09:26:53] [INFO] Logging started", lines[0])
	assert.Equal(t, "[2025-03-14 09:26:53] [DEBUG] debug message", lines[1])
	assert.Equal(t, "[2025-03-14 09:26:53] [INFO] info message", lines[2])
	assert.Equal(t, "[2025-03-14 09:26:53] [WARN] warn message", lines[3])
	assert.Equal(t, "[2025-03-14 09:26:53] [ERROR] error message", lines[4])
}

func TestHandleFormattedLogging(t *testing.T) {
	h, clock, tmpDir := createTestHandle(t)

	clock.Advance(2 * time.Second)
	h.Infof("lane %d of %d", 3, 10)
	h.Debugf("file=%s", "a.csv")
	h.Warnf("retry %v", true)
	h.Errorf("failed: %v", os.ErrNotExist)

	lines := readLines(t, filepath.Join(tmpDir, "test.log"))
	require.Len(t, lines, 5)
	assert.Equal(t, "[2025-03-14 09:26:55] [INFO] lane 3 of 10", lines[1])
	assert.Equal(t, "[2025-03-14 09:26:55] [DEBUG] file=a.csv", lines[2])
	assert.Equal(t, "[2025-03-14 09:26:55] [WARN] retry true", lines[3])
	assert.Equal(t, "[2025-03-14 09:26:55] [ERROR] failed: file does not exist", lines[4])
}

func TestHandleMultipleArgs(t *testing.T) {
	h, _, tmpDir := createTestHandle(t)

	h.Info("lanes", 12, "ratio", 0.5, "done", false, map[string]int{"b": 2, "a": 1})

	lines := readLines(t, filepath.Join(tmpDir, "test.log"))
	require.Len(t, lines, 2)
	assert.Equal(t, "[2025-03-14 09:26:53] [INFO] lanes 12 ratio 0.5 done false map[a:1 b:2]", lines[1])
}

func TestHandleSanitizesControlCharacters(t *testing.T) {
	h, _, tmpDir := createTestHandle(t)

	h.Info("line one\nline two\x00")

	lines := readLines(t, filepath.Join(tmpDir, "test.log"))
	require.Len(t, lines, 2)
	assert.Equal(t, "[2025-03-14 09:26:53] [INFO] line one<0a>line two<00>", lines[1])
}

func TestHandleWithoutSinks(t *testing.T) {
	h := NewRegistry().Get("unswitched")

	assert.NotPanics(t, func() {
		h.Info("dropped")
		h.Debug("dropped")
	})
	assert.Nil(t, h.GetConfig())
	assert.NoError(t, h.Sync())
	assert.NoError(t, h.Close())
}

func TestHandleSyncAndClose(t *testing.T) {
	h, _, tmpDir := createTestHandle(t)

	h.Info("before close")
	require.NoError(t, h.Sync())
	require.NoError(t, h.Close())

	h.Info("after close")

	lines := readLines(t, filepath.Join(tmpDir, "test.log"))
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "before close")

	// Closing twice is harmless
	assert.NoError(t, h.Close())
}

func TestHandleConcurrentLogging(t *testing.T) {
	h, _, tmpDir := createTestHandle(t)

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				h.Info("worker", id, "msg", i)
			}
		}(w)
	}
	wg.Wait()

	lines := readLines(t, filepath.Join(tmpDir, "test.log"))
	assert.Len(t, lines, workers*perWorker+1)
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "[2025-03-14 09:26:53] [INFO] worker "), line)
	}
}
