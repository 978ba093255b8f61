package shared

import (
	"fmt"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
)

// Request-scope errors. Each wraps the httpx sentinel that decides its
// response status.
var (
	// ErrOwnerRequired is returned when a data scope is requested without an owner.
	ErrOwnerRequired = fmt.Errorf("%w: owner identity required", httpx.ErrUnauthorized)
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
	ErrCSRFTokenMissing   = fmt.Errorf("%w: csrf token missing", httpx.ErrForbidden)
	ErrCSRFTokenMismatch  = fmt.Errorf("%w: csrf token mismatch", httpx.ErrForbidden)
)
