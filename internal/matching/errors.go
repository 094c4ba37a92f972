package matching

import "errors"

// ErrCatalogLookup wraps failures of the injected catalog collaborator.
var ErrCatalogLookup = errors.New("catalog lookup failed")
