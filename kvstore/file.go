package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File stores every key as one file under Dir. Writes go to a temporary file
// that is renamed over the target, so readers see the old or the new value.
type File struct {
	Dir string
}

func NewFile(dir string) (*File, error) {
	if dir == "" {
		dir = "./data"
	}
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &File{Dir: dir}, nil
}

func (f *File) Driver() Driver { return DriverFile }

// sanitizeKey forbids path traversal and absolute keys.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key '%s': contains '..'", key)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid key '%s': absolute", key)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}

func (f *File) pathFor(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.Dir, k), nil
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	filename, err := f.pathFor(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read '%s': %w", key, err)
	}
	return string(data), true, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	filename, err := f.pathFor(key)
	if err != nil {
		return err
	}
	err = os.MkdirAll(filepath.Dir(filename), 0o755)
	if err != nil {
		return fmt.Errorf("create dir for '%s': %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	_, err = tmp.WriteString(value)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("write '%s': %w", key, err)
	}
	err = tmp.Sync()
	if err != nil {
		tmp.Close()
		return fmt.Errorf("sync '%s': %w", key, err)
	}
	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close '%s': %w", key, err)
	}

	err = os.Rename(tmp.Name(), filename)
	if err != nil {
		return fmt.Errorf("rename '%s': %w", key, err)
	}
	return nil
}

func (f *File) Remove(ctx context.Context, key string) error {
	filename, err := f.pathFor(key)
	if err != nil {
		return err
	}
	err = os.Remove(filename)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove '%s': %w", key, err)
	}
	return nil
}

func (f *File) Close() error {
	return nil
}
