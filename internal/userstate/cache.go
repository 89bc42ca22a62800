package userstate

import (
	"errors"
	"io/fs"
	"os"
)

// ErrNoCache is returned by a Cache when no durable record exists yet.
var ErrNoCache = errors.New("no cached user state")

// Cache is the durable backing for the current-user record, the analogue of
// the browser's local storage.
type Cache interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Remove() error
}

// FileCache persists the record as a JSON file.
type FileCache struct {
	path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (c *FileCache) Read() ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoCache
	}
	return data, err
}

func (c *FileCache) Write(data []byte) error {
	return os.WriteFile(c.path, data, 0600)
}

func (c *FileCache) Remove() error {
	err := os.Remove(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
