// Package file reads payloads to send and writes recovered payloads.
//
// Example:
//
//	payload, err := file.ReadPayload("hello.txt")
//	...
//	err = file.WriteAtomic("received.txt", payload, file.DefaultPerm)
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opd-ai/airgapsync/limits"
	"github.com/sirupsen/logrus"
)

// ErrDirectoryTraversal indicates an attempt to access files outside allowed directories.
var ErrDirectoryTraversal = errors.New("path contains directory traversal")

// ErrIO indicates a file could not be read or written.
var ErrIO = errors.New("file I/O failed")

// ErrNotRegular indicates the input path is a directory or special file.
var ErrNotRegular = errors.New("not a regular file")

// DefaultPerm is the mode of written output files.
const DefaultPerm os.FileMode = 0o600

// DefaultOutputName is the file a receive writes when no output is configured.
const DefaultOutputName = "received.txt"

// ValidatePath checks if a file path is safe from directory traversal attacks.
// It returns the cleaned path or an error if any path element is "..".
func ValidatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrIO)
	}

	cleanedPath := filepath.Clean(path)
	for _, part := range strings.Split(filepath.ToSlash(cleanedPath), "/") {
		if part == ".." {
			return "", ErrDirectoryTraversal
		}
	}

	return cleanedPath, nil
}

// ReadPayload reads a whole regular file into memory, refusing files larger
// than limits.MaxPayloadSize.
func ReadPayload(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	if err := limits.ValidatePayloadSize(int(min(info.Size(), int64(limits.MaxPayloadSize)+1))); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "ReadPayload",
			"file_name": path,
			"error":     err.Error(),
		}).Error("Failed to read payload")
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := limits.ValidatePayloadSize(len(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "ReadPayload",
		"file_name": path,
		"file_size": len(data),
	}).Debug("Payload read")

	return data, nil
}

// WriteAtomic writes data to path through a temporary file in the same
// directory followed by a rename, so path either keeps its old contents or
// holds all of data. Paths containing ".." elements are rejected.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	safePath, err := ValidatePath(path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "WriteAtomic",
			"file_name": path,
			"error":     err.Error(),
		}).Error("File path validation failed")
		return err
	}

	dir, base := filepath.Split(safePath)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, data, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	if err := os.Rename(tmpName, safePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "WriteAtomic",
		"file_name": safePath,
		"file_size": len(data),
	}).Info("File written")

	return nil
}

func writeAndClose(f *os.File, data []byte, perm os.FileMode) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
