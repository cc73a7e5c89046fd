package assets

import "errors"

// ErrStyleNotFound indicates the embedded stylesheet is missing from the build.
var ErrStyleNotFound = errors.New("style not found")
