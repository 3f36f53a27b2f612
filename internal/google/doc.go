// Package google exchanges a stored OAuth refresh token for a short-lived Google
// access token and builds the authenticated HTTP client used by the Drive API.
package google
