package submit

import "errors"

var (
	// ErrNothingToSubmit is returned when no selection has been committed
	ErrNothingToSubmit = errors.New("submit: nothing to submit")

	// ErrRejected is returned when the save endpoint answers success=false
	ErrRejected = errors.New("submit: save endpoint rejected the bookings")

	// ErrInvalidResponse is returned when the response is not {"success": bool}
	ErrInvalidResponse = errors.New("submit: invalid response from save endpoint")

	// ErrTransport is returned when the request could not be completed
	ErrTransport = errors.New("submit: request to save endpoint failed")

	// ErrNoEndpoint is returned when no save endpoint is configured or discoverable
	ErrNoEndpoint = errors.New("submit: no save endpoint configured")
)
