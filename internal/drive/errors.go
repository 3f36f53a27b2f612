package drive

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// APIError returns the Drive API error wrapped in err, if any.
func APIError(err error) (*googleapi.Error, bool) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAPIError reports whether err came back from the Drive API as an HTTP error response.
func IsAPIError(err error) bool {
	_, ok := APIError(err)
	return ok
}

// IsNotFound reports whether the Drive API answered 404, which Drive also
// returns when the caller has no access to the item.
func IsNotFound(err error) bool {
	apiErr, ok := APIError(err)
	return ok && apiErr.Code == http.StatusNotFound
}
