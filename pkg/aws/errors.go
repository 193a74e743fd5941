package aws

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
)

// ErrorClass groups provider failures by what an operator can do about them
type ErrorClass string

const (
	// ErrorClassTransient failures may succeed on a later run
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassPermission failures need credential, policy or region opt-in changes
	ErrorClassPermission ErrorClass = "permission"

	// ErrorClassOther covers everything else
	ErrorClassOther ErrorClass = "other"
)

var transientCodes = map[string]bool{
	"Throttling":                    true,
	"ThrottlingException":           true,
	"RequestLimitExceeded":          true,
	"RequestThrottled":              true,
	"TooManyRequestsException":      true,
	"ServiceUnavailable":            true,
	"Unavailable":                   true,
	"InternalError":                 true,
	"InternalFailure":               true,
	"InternalServiceError":          true,
	"LimitExceededException":        true,
	"RequestTimeout":                true,
	"RequestTimeoutException":       true,
	"EC2ThrottledException":         true,
	"PriorRequestNotComplete":       true,
	"ProvisionedThroughputExceeded": true,
}

var permissionCodes = map[string]bool{
	"AuthFailure":                 true,
	"UnauthorizedOperation":       true,
	"AccessDenied":                true,
	"AccessDeniedException":       true,
	"InvalidClientTokenId":        true,
	"ExpiredToken":                true,
	"ExpiredTokenException":       true,
	"SignatureDoesNotMatch":       true,
	"OptInRequired":               true,
	"UnrecognizedClientException": true,
}

// Classify sorts an error into an ErrorClass
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorClassOther
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTransient
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case permissionCodes[code]:
			return ErrorClassPermission
		case transientCodes[code]:
			return ErrorClassTransient
		case apiErr.ErrorFault() == smithy.FaultServer:
			return ErrorClassTransient
		}
	}

	return ErrorClassOther
}
