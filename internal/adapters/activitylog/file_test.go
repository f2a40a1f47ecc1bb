package activitylog_test

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Amund211/ethwalletbot/internal/adapters/activitylog"
	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestFile(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 7, 9, 5, 3, 123456000, time.UTC)
	nowFunc := func() time.Time { return now }

	t.Run("lines are appended in order with a timestamp", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		f, err := activitylog.NewFile(dir, activitylog.WithNowFunc(nowFunc))
		require.NoError(t, err)

		require.NoError(t, f.Log(t.Context(), 1234, "User started bot. Message: /start"))
		require.NoError(t, f.Log(t.Context(), 1234, "Help requested. Message: /help"))

		require.Equal(t, filepath.Join(dir, "1234.log"), f.Path(1234))
		require.Equal(t, []string{
			"2024-03-07 09:05:03.123456: User started bot. Message: /start",
			"2024-03-07 09:05:03.123456: Help requested. Message: /help",
		}, readLines(t, f.Path(1234)))
	})

	t.Run("existing files are appended to", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "42.log")
		require.NoError(t, os.WriteFile(path, []byte("earlier line\n"), 0o644))

		f, err := activitylog.NewFile(dir, activitylog.WithNowFunc(nowFunc))
		require.NoError(t, err)
		require.NoError(t, f.Log(t.Context(), 42, "later line"))

		require.Equal(t, []string{
			"earlier line",
			"2024-03-07 09:05:03.123456: later line",
		}, readLines(t, path))
	})

	t.Run("users get separate files", func(t *testing.T) {
		t.Parallel()

		f, err := activitylog.NewFile(t.TempDir(), activitylog.WithNowFunc(nowFunc))
		require.NoError(t, err)

		require.NoError(t, f.Log(t.Context(), 1, "one"))
		require.NoError(t, f.Log(t.Context(), 2, "two"))

		require.Len(t, readLines(t, f.Path(1)), 1)
		require.Len(t, readLines(t, f.Path(2)), 1)
	})

	t.Run("nested directory is created", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "a", "b")
		f, err := activitylog.NewFile(dir)
		require.NoError(t, err)
		require.NoError(t, f.Log(t.Context(), 1, "hello"))
		require.FileExists(t, f.Path(1))
	})

	t.Run("concurrent writes don't interleave", func(t *testing.T) {
		t.Parallel()

		f, err := activitylog.NewFile(t.TempDir(), activitylog.WithNowFunc(nowFunc))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Go(func() {
				require.NoError(t, f.Log(t.Context(), 7, fmt.Sprintf("line %d", i)))
			})
		}
		wg.Wait()

		lines := readLines(t, f.Path(7))
		require.Len(t, lines, 50)
		for _, line := range lines {
			require.Regexp(t, `^2024-03-07 09:05:03\.123456: line \d+$`, line)
		}
	})
}

func TestNewFileInvalidDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := activitylog.NewFile(filepath.Join(blocker, "logs"))
	require.Error(t, err)
}

var _ activitylog.ActivityLogger = (*activitylog.File)(nil)

func TestFileManyUsersStartNoGoroutines(t *testing.T) {
	f, err := activitylog.NewFile(t.TempDir())
	require.NoError(t, err)

	before := runtime.NumGoroutine()
	for i := range 500 {
		require.NoError(t, f.Log(t.Context(), domain.UserID(i), "User started bot. Message: /start"))
	}
	after := runtime.NumGoroutine()

	require.LessOrEqual(t, after-before, 5, "goroutines before=%d after=%d", before, after)
}

func TestFileRotation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f, err := activitylog.NewFile(dir, activitylog.WithRotation(1, 2))
	require.NoError(t, err)

	// User 9 passes the 1MB limit on the fourth line
	chunk := strings.Repeat("x", 300*1024)
	for i := range 5 {
		require.NoError(t, f.Log(t.Context(), 9, fmt.Sprintf("line %d %s", i, chunk)))
	}
	require.NoError(t, f.Log(t.Context(), 10, "small"))

	current := readLines(t, f.Path(9))
	require.Len(t, current, 2)
	require.True(t, strings.HasPrefix(current[0][len("2006-01-02 15:04:05.000000: "):], "line 3 "))
	require.True(t, strings.HasPrefix(current[1][len("2006-01-02 15:04:05.000000: "):], "line 4 "))

	// The backup is compressed in the background
	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return false
		}
		compressed, uncompressed := 0, 0
		for _, entry := range entries {
			switch name := entry.Name(); {
			case !strings.HasPrefix(name, "9-"):
			case strings.HasSuffix(name, ".log.gz"):
				compressed++
			default:
				uncompressed++
			}
		}
		return compressed == 1 && uncompressed == 0
	}, 5*time.Second, 10*time.Millisecond)

	small := readLines(t, f.Path(10))
	require.Len(t, small, 1)
	require.True(t, strings.HasSuffix(small[0], ": small"))
}

func TestUserIDFormatting(t *testing.T) {
	t.Parallel()

	f, err := activitylog.NewFile(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "-100.log", filepath.Base(f.Path(domain.UserID(-100))))
}
