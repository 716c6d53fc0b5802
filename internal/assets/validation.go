package assets

import (
	"fmt"
	"strings"
)

// ValidateResourceName checks that a resource name is a plain filename.
// Returns ErrInvalidResourceName if the name is empty, hidden, contains path
// separators, or is a traversal sequence.
func ValidateResourceName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidResourceName)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidResourceName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q", ErrInvalidResourceName, name)
	}
	return nil
}
