// SPDX-License-Identifier: EPL-2.0

package stream

import "errors"

var (
	// ErrResourceUnavailable wraps every failure to open, decode or create
	// an endpoint. It is always returned before any block is processed.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrRateMismatch is returned when input and reference run at different
	// sample rates.
	ErrRateMismatch = errors.New("input and reference sample rates differ")

	// ErrUnknownFormat is returned for a format name OpenFiles does not know.
	ErrUnknownFormat = errors.New("unknown stream format")
)
