package integrity

import "errors"

var (
	// ErrFactoryRequired indicates a checker was created without a
	// repository factory.
	ErrFactoryRequired = errors.New("repository factory is required")
)
