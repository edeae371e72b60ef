// Package repository contains data access logic separated from HTTP
// handlers: the credential store, the refresh-token store and the generic
// paged catalog repository with its per-entity SQL adapters.
package repository

import "errors"

// ErrNotFound is returned when an entity cannot be located by id.  The
// delete path checks existence first and reports this instead of handing a
// missing row to the driver.  Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")
