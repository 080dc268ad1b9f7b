package internal

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FullPathname returns filename relative to the working directory
// if it is not already absolute.
func FullPathname(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	wd, err := os.Getwd()
	return filepath.Join(wd, filename), err
}

// FileOpen is os.Open with the file name added to errors.
func FileOpen(filename string) (*os.File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %v", filename)
	}
	return f, nil
}

// FileCreate is os.Create with the file name added to errors.
func FileCreate(filename string) (*os.File, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %v", filename)
	}
	return f, nil
}

// Close closes c and stores its error in *err, unless *err already
// holds an error. Meant to be deferred.
func Close(c io.Closer, err *error) {
	if nerr := c.Close(); *err == nil && nerr != nil {
		*err = nerr
	}
}
