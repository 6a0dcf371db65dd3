package domain

import "errors"

var (
	// ErrPersistence marks connectivity or constraint failures at the storage boundary.
	ErrPersistence = errors.New("persistence failure")

	// ErrDecode marks a malformed upload stream.
	ErrDecode = errors.New("malformed csv upload")

	// ErrNoUpload is returned when a multipart request carries no file part.
	ErrNoUpload = errors.New("no file uploaded")

	// ErrRouteNotFound is reported for unmatched routes.
	ErrRouteNotFound = errors.New("route not found")
)
