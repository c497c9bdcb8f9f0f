package source

import "errors"

var (
	// ErrFetch is returned when the dataset request could not be completed:
	// the connection failed, the context expired, or the server answered with
	// a non-2xx status.
	ErrFetch = errors.New("failed to fetch dataset")

	// ErrStatus is wrapped together with ErrFetch when the server answered
	// with a non-2xx status code.
	ErrStatus = errors.New("unexpected status code")

	// ErrMalformed is returned when the response body is not a JSON document
	// of the expected shape, or exceeds the configured size limit.
	ErrMalformed = errors.New("malformed dataset")

	// ErrNoGroupKind is returned when a grouped dataset is requested without
	// a grouping kind.
	ErrNoGroupKind = errors.New("no group kind specified")

	// ErrInvalidBaseURL is returned when the base URL is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is not
	// in host:port format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)
