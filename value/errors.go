package value

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrFrozen is matched by every error returned when mutating a frozen
// container.
var ErrFrozen = errors.New("value: container is frozen")

// ErrNilContainer is returned when mutating a nil *Map or *List.
var ErrNilContainer = errors.New("value: container is nil")

// Op names a container mutation.
type Op string

const (
	OpSet    Op = "set"
	OpDelete Op = "delete"
	OpAppend Op = "append"
)

// MutationError reports an attempt to mutate a frozen container.
type MutationError struct {
	Op   Op
	Kind string
	Key  string
}

func (e *MutationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key == "" {
		return fmt.Sprintf("value: cannot %s on frozen %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("value: cannot %s %s on frozen %s", e.Op, describeKey(e.Key), e.Kind)
}

func (e *MutationError) Unwrap() error {
	return ErrFrozen
}

func mutationError(op Op, kind, key string) error {
	return &MutationError{Op: op, Kind: kind, Key: key}
}

func nilContainerError(op Op, kind string) error {
	return fmt.Errorf("%w: cannot %s on nil %s", ErrNilContainer, op, kind)
}

func describeKey(key string) string {
	if len(key) > 0 && key[0] == '[' {
		return key
	}
	return strconv.Quote(key)
}

func indexPath(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// IndexError reports an out of range list index.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("value: index %d out of range [0:%d]", e.Index, e.Len)
}
