package activitylog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Amund211/ethwalletbot/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

const megabyte = 1024 * 1024

// Append-only log of user activity, one file per user
type File struct {
	dir        string
	maxSizeMB  int
	maxBackups int
	nowFunc    func() time.Time

	mutex sync.Mutex
	// Rotators for users whose log has rotated at least once.
	// Each one owns a background goroutine that compresses and prunes that user's backups.
	rotators map[domain.UserID]*lumberjack.Logger
	tracer   trace.Tracer
}

type Option func(*File)

// Rotate a user's log once it grows beyond maxSizeMB, keeping at most maxBackups compressed copies.
// maxBackups 0 keeps all of them.
func WithRotation(maxSizeMB, maxBackups int) Option {
	return func(f *File) {
		f.maxSizeMB = maxSizeMB
		f.maxBackups = maxBackups
	}
}

func WithNowFunc(nowFunc func() time.Time) Option {
	return func(f *File) {
		f.nowFunc = nowFunc
	}
}

func NewFile(dir string, opts ...Option) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create activity log dir: %w", err)
	}

	f := &File{
		dir:        dir,
		maxSizeMB:  5,
		maxBackups: 3,
		nowFunc:    time.Now,
		rotators:   make(map[domain.UserID]*lumberjack.Logger),
		tracer:     otel.Tracer("ethwalletbot/activitylog/file"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *File) Path(userID domain.UserID) string {
	return filepath.Join(f.dir, fmt.Sprintf("%d.log", int64(userID)))
}

func formatLine(at time.Time, text string) string {
	return fmt.Sprintf("%s: %s\n", at.Format(timestampLayout), text)
}

func (f *File) Log(ctx context.Context, userID domain.UserID, text string) error {
	_, span := f.tracer.Start(ctx, "File.Log")
	defer span.End()

	line := formatLine(f.nowFunc(), text)

	f.mutex.Lock()
	defer f.mutex.Unlock()

	path := f.Path(userID)
	if err := f.rotateIfFull(userID, path, len(line)); err != nil {
		return fmt.Errorf("failed to rotate activity log for user %d: %w", int64(userID), err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open activity log for user %d: %w", int64(userID), err)
	}

	_, writeErr := file.WriteString(line)
	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("failed to write activity log for user %d: %w", int64(userID), writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close activity log for user %d: %w", int64(userID), closeErr)
	}
	return nil
}

// Move the user's log to a backup if the next write would take it past the size limit
func (f *File) rotateIfFull(userID domain.UserID, path string, writeLen int) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	if info.Size()+int64(writeLen) <= int64(f.maxSizeMB)*megabyte {
		return nil
	}

	rotator, ok := f.rotators[userID]
	if !ok {
		rotator = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    f.maxSizeMB,
			MaxBackups: f.maxBackups,
			Compress:   true,
		}
		f.rotators[userID] = rotator
	}

	if err := rotator.Rotate(); err != nil {
		return err
	}
	// Appends go through our own handle, the rotator only renames and prunes
	return rotator.Close()
}
