package store

import (
	"errors"
	"fmt"
)

// StoreError represents a condition the caller is expected to handle:
// a missing row, a uniqueness violation, or a script lookup miss.
//
// Driver and I/O failures are never typed - they are wrapped with context
// via fmt.Errorf and are fatal to the calling operation.
type StoreError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Kind identifies the binding namespace (for binding errors).
	Kind Kind

	// Name identifies the binding or blob involved, if any.
	Name string

	// Path identifies the tree root involved, if any.
	Path string
}

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// CodeNotFound indicates the requested blob, binding or tree is absent.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeDuplicateName indicates a (tree, name) collision within a kind.
	CodeDuplicateName ErrorCode = "DUPLICATE_NAME"

	// CodeAlreadyRegistered indicates the path already names a tree root.
	CodeAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"

	// CodeNoSuchScript indicates a script lookup miss for the current tree.
	// Distinguished from CodeNotFound so the CLI can print the list of
	// available scripts instead of a generic failure.
	CodeNoSuchScript ErrorCode = "NO_SUCH_SCRIPT"
)

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound returns true if the error is any not-found condition,
// including a script lookup miss. Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == CodeNotFound || se.Code == CodeNoSuchScript
	}
	return false
}

// IsDuplicateName returns true if the error is a binding name collision.
func IsDuplicateName(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == CodeDuplicateName
	}
	return false
}

// IsAlreadyRegistered returns true if the error is a tree path collision.
func IsAlreadyRegistered(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == CodeAlreadyRegistered
	}
	return false
}

// IsNoSuchScript returns true if the error is a script lookup miss for the
// current tree. Uses errors.As to handle wrapped errors.
func IsNoSuchScript(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == CodeNoSuchScript
	}
	return false
}

func newBlobNotFound(id int64) *StoreError {
	return &StoreError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("no blob with id %d", id),
	}
}

func newTreeNotFound(path string) *StoreError {
	return &StoreError{
		Code:    CodeNotFound,
		Message: "no such tree root",
		Path:    path,
	}
}

func newAlreadyRegistered(path string) *StoreError {
	return &StoreError{
		Code:    CodeAlreadyRegistered,
		Message: "path is already a tree root",
		Path:    path,
	}
}

func newDuplicateName(kind Kind, name string) *StoreError {
	return &StoreError{
		Code:    CodeDuplicateName,
		Message: fmt.Sprintf("%s name already exists for this tree", kind),
		Kind:    kind,
		Name:    name,
	}
}

// newBindingMissing picks the error code for a binding lookup miss.
// Script misses get the distinguished NO_SUCH_SCRIPT code.
func newBindingMissing(kind Kind, name string) *StoreError {
	code := CodeNotFound
	msg := fmt.Sprintf("no such %s for this tree", kind)
	if kind == KindScript {
		code = CodeNoSuchScript
		msg = "no such script for the current tree"
	}
	return &StoreError{Code: code, Message: msg, Kind: kind, Name: name}
}
