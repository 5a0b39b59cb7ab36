// SPDX-License-Identifier: EPL-2.0

package nlms

import "errors"

var (
	ErrInvalidBlockLen       = errors.New("nlms: block length must be at least 1")
	ErrInvalidFilterLen      = errors.New("nlms: filter length must be at least 1")
	ErrInvalidStepSize       = errors.New("nlms: step size must be finite and positive")
	ErrInvalidRegularization = errors.New("nlms: regularization must be finite and positive")
	ErrInvalidCoefficients   = errors.New("nlms: initial coefficients must match the filter length")

	ErrWindowLength = errors.New("nlms: processing window length mismatch")
	ErrBlockLength  = errors.New("nlms: block length mismatch")
	ErrOutputLength = errors.New("nlms: output buffer too short")
)
