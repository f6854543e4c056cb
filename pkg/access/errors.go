package access

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoInstance means no IAM Identity Center instance is visible to
// the caller. The handler expects exactly one instance; this is a
// fatal misconfiguration, not a retryable condition.
var ErrNoInstance = errors.New("no IAM Identity Center instance found")

// ErrAmbiguousInstance means more than one Identity Center instance is
// visible and the handler cannot choose between them.
var ErrAmbiguousInstance = errors.New("more than one IAM Identity Center instance found")

// NotFoundError reports that a user, permission set or bucket a
// request names does not exist. It aborts the single request.
type NotFoundError struct {
	Resource string
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Name)
}
