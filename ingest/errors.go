// backend/ingest/errors.go
package ingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrPrecondition      = errors.New("operation called out of order")
	ErrFilenameYear      = errors.New("no 4-digit year in file name")
	ErrColumnCollision   = errors.New("column names collide after normalization")
	ErrNoSourceFiles     = errors.New("no source files")
)

// UnsupportedFormatError is returned when a source file is not a .csv file.
// It aborts the run before any file is parsed.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("the file extension %q of %s is not supported, expected .csv", e.Ext, e.Path)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// PreconditionError is returned when an operation runs before the table it
// needs exists.
type PreconditionError struct {
	Op    string
	State State
	Need  State
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s requires state %s, ingestor is %s", e.Op, e.Need, e.State)
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// FilenameYearError is returned when a file name does not follow <label>_<yyyy>.csv.
type FilenameYearError struct {
	Path string
}

func (e *FilenameYearError) Error() string {
	return fmt.Sprintf("file %s does not match <label>_<year>.csv", e.Path)
}

func (e *FilenameYearError) Is(target error) bool { return target == ErrFilenameYear }

// ColumnCollisionError lists the original labels that normalize to Name.
type ColumnCollisionError struct {
	Name      string
	Originals []string
}

func (e *ColumnCollisionError) Error() string {
	return fmt.Sprintf("columns %s all normalize to %q", strings.Join(quoteAll(e.Originals), ", "), e.Name)
}

func (e *ColumnCollisionError) Is(target error) bool { return target == ErrColumnCollision }

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
