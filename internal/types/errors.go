package types

import "errors"

// ErrTenantMismatch signals an attempted cross-tenant access. It is an
// integrity error: surfaced immediately, never retried or recovered.
var ErrTenantMismatch = errors.New("entity belongs to a different tenant")
