// internal/inventory/errors.go
package inventory

import "errors"

// ErrFolderNotFound indicates the folder to scan does not exist or is not a directory.
var ErrFolderNotFound = errors.New("folder not found")
