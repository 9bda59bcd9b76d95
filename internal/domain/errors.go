package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPayload is returned when a create request carries no fields.
	ErrEmptyPayload = errors.New("no data provided")
	// ErrInvalidInput is returned when tag_ids is missing, not a list, or empty.
	ErrInvalidInput = errors.New("tag_ids must be a non-empty list")
	// ErrInvalidIdentifier matches every InvalidIdentifierError.
	ErrInvalidIdentifier = InvalidIdentifierError{}
)

// InvalidIdentifierError reports an identifier that does not parse.
type InvalidIdentifierError struct {
	Field string
	Value string
}

func (e InvalidIdentifierError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid identifier %q", e.Value)
	}
	return fmt.Sprintf("invalid identifier in %s: %q", e.Field, e.Value)
}

// Is enables errors.Is matching on InvalidIdentifierError.
func (e InvalidIdentifierError) Is(target error) bool {
	_, ok := target.(InvalidIdentifierError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidIdentifierError)
	return ok
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	switch e.Resource {
	case "":
		return "not found"
	case "item":
		return "item not found"
	case "tag":
		return "one or more tag_ids not found"
	default:
		return fmt.Sprintf("%s not found", e.Resource)
	}
}

// Is enables errors.Is matching on NotFoundError. The bare ErrNotFound
// matches any resource; a sentinel with a resource only matches its own.
func (e NotFoundError) Is(target error) bool {
	var t NotFoundError
	switch v := target.(type) {
	case NotFoundError:
		t = v
	case *NotFoundError:
		if v == nil {
			return false
		}
		t = *v
	default:
		return false
	}
	return t.Resource == "" || t.Resource == e.Resource
}

var (
	// ErrNotFound is the sentinel error for missing resources.
	ErrNotFound = NotFoundError{}
	// ErrItemNotFound is returned when the referenced item does not exist.
	ErrItemNotFound = NotFoundError{Resource: "item"}
	// ErrTagsNotFound is returned when at least one referenced tag does not exist.
	ErrTagsNotFound = NotFoundError{Resource: "tag"}
)
