package common

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// FileWriteOptions configures file writing behavior
type FileWriteOptions struct {
	CreateDirs  bool        // Whether to create parent directories
	Permissions fs.FileMode // File permissions
}

// DefaultFileWriteOptions returns default file writing options
func DefaultFileWriteOptions() FileWriteOptions {
	return FileWriteOptions{
		CreateDirs:  true,
		Permissions: 0644,
	}
}

// LineReadOptions configures ReadLines
type LineReadOptions struct {
	TrimLines    bool // Whether to trim whitespace from lines
	SkipEmpty    bool // Whether to skip empty lines
	SkipComments bool // Whether to skip lines starting with '#'
}

// DefaultLineReadOptions returns options suited to one-value-per-line list files
func DefaultLineReadOptions() LineReadOptions {
	return LineReadOptions{
		TrimLines:    true,
		SkipEmpty:    true,
		SkipComments: true,
	}
}

// FileManager provides file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a file or directory exists
func (fm *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// ReadFile reads a whole file. A missing file yields an error wrapping ErrNotFound.
func (fm *FileManager) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, WrapErrorf(ErrNotFound, "file not found: %s", path)
		}
		return nil, WrapErrorf(err, "failed to read file: %s", path)
	}
	fm.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Read file")
	return data, nil
}

// ReadLines reads a text file and returns its lines filtered by opts
func (fm *FileManager) ReadLines(path string, opts LineReadOptions) ([]string, error) {
	data, err := fm.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if opts.TrimLines {
			line = strings.TrimSpace(line)
		}
		if opts.SkipEmpty && strings.TrimSpace(line) == "" {
			continue
		}
		if opts.SkipComments && strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, WrapErrorf(err, "failed to scan lines of: %s", path)
	}
	return lines, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return WrapError(err, "failed to create directory: "+path)
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// WriteFile writes data to a file with the given options
func (fm *FileManager) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	if opts.CreateDirs {
		if err := fm.EnsureDirectory(filepath.Dir(path), 0755); err != nil {
			return WrapError(err, "failed to create parent directories for: "+path)
		}
	}

	perm := opts.Permissions
	if perm == 0 {
		perm = 0644
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return WrapErrorf(err, "failed to write file: %s", path)
	}

	fm.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Wrote file")
	return nil
}

// WalkFiles returns the sorted paths of regular files under root accepted by keep.
// A nil keep accepts every file.
func (fm *FileManager) WalkFiles(root string, keep func(path string, d fs.DirEntry) bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, WrapErrorf(ErrNotFound, "directory not found: %s", root)
		}
		return nil, WrapErrorf(err, "failed to stat: %s", root)
	}
	if !info.IsDir() {
		return nil, NewValidationError("root", root, "is not a directory")
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			fm.logger.Warn().Err(walkErr).Str("path", path).Msg("Skipping unreadable path")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if keep == nil || keep(path, d) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, WrapErrorf(err, "failed to walk: %s", root)
	}

	sort.Strings(files)
	return files, nil
}

// HasExtension returns a WalkFiles filter matching any of the given extensions
func HasExtension(exts ...string) func(string, fs.DirEntry) bool {
	return func(path string, _ fs.DirEntry) bool {
		ext := strings.ToLower(filepath.Ext(path))
		for _, e := range exts {
			if ext == strings.ToLower(e) {
				return true
			}
		}
		return false
	}
}
