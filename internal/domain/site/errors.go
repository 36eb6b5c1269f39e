package site

import "errors"

var (
	ErrSiteNotFound        = errors.New("site not found")
	ErrSiteMissingLocation = errors.New("site has no GPS location configured")
)
