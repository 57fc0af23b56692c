package mibi

import (
	"fmt"
	"time"
)

// ErrOpenFile represents an error when opening a bin file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

// ErrReadFile represents an error when reading from a bin file.
type ErrReadFile struct {
	Filename string
	Offset   int64
	Err      error
}

func (e *ErrReadFile) Error() string {
	return fmt.Sprintf("error reading file %q at offset %d: %v", e.Filename, e.Offset, e.Err)
}

// ErrTimeout represents an expired wait for bin file bytes to land on disk.
type ErrTimeout struct {
	Filename string
	Waited   time.Duration
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("timed out after %v waiting for data in file %q", e.Waited, e.Filename)
}

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}
