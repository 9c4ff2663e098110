// Package cookies persists the browser session's cookie set between runs.
//
// The on-disk format is private to this package. Callers only see
// []browser.Cookie.
package cookies

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/entrhq/slackpost/pkg/browser"
)

// DefaultFileName is the cookie file used when no path is configured.
const DefaultFileName = "slack_cookies.gob"

// ErrCookieFile is returned when the cookie file exists but cannot be read
// or decoded.
var ErrCookieFile = errors.New("cookie file error")

// record is the serialized form of a single cookie. It is decoupled from
// browser.Cookie so the file format does not follow that type around.
type record struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  float64
	HttpOnly bool
	Secure   bool
	SameSite string
}

type jar struct {
	Cookies []record
}

// FileStore saves and loads a cookie set to a single local file.
type FileStore struct {
	path string
}

// NewFileStore creates a cookie store at path. An empty path uses
// DefaultFileName in the working directory.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFileName
	}
	return &FileStore{path: path}
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the cookie file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes the cookie set, replacing any previous contents.
func (s *FileStore) Save(cookies []browser.Cookie) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("%w: failed to create cookie directory: %w", ErrCookieFile, err)
	}

	data := jar{Cookies: make([]record, 0, len(cookies))}
	for _, c := range cookies {
		data.Cookies = append(data.Cookies, record(c))
	}

	// Write to a temp file and rename so a crash never leaves a truncated jar
	tempPath := s.path + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("%w: failed to create temp cookie file: %w", ErrCookieFile, err)
	}

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("%w: failed to encode cookies: %w", ErrCookieFile, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: failed to close temp cookie file: %w", ErrCookieFile, err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: failed to rename temp cookie file: %w", ErrCookieFile, err)
	}

	return nil
}

// Load reads the cookie set. A missing file yields (nil, nil). Expiry is not
// checked; stale cookies are returned as stored.
func (s *FileStore) Load() ([]browser.Cookie, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to open %s: %w", ErrCookieFile, s.path, err)
	}
	defer file.Close()

	var data jar
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", ErrCookieFile, s.path, err)
	}

	cookies := make([]browser.Cookie, 0, len(data.Cookies))
	for _, r := range data.Cookies {
		cookies = append(cookies, browser.Cookie(r))
	}
	return cookies, nil
}
