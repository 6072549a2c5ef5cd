package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Reaction Module Error Codes
const (
	ErrCodeMissingCompound      ErrorCode = "REACT_001"
	ErrCodeUnparsableCompound   ErrorCode = "REACT_002"
	ErrCodeNotAnAlcohol         ErrorCode = "REACT_003"
	ErrCodeIncompatibleCatalyst ErrorCode = "REACT_004"
	ErrCodeUnsupportedReaction  ErrorCode = "REACT_005"
	ErrCodePathwayNotDetermined ErrorCode = "REACT_006"
	ErrCodePredictionFault      ErrorCode = "REACT_007"
)

// Molecule Module Error Codes
const (
	ErrCodeMoleculeInvalidSMILES ErrorCode = "MOL_001"
	ErrCodeMoleculeValence       ErrorCode = "MOL_002"
	ErrCodeRenderFailed          ErrorCode = "MOL_003"
)

// Aliases used by infrastructure call sites.
const (
	CodeOK            = ErrorCode("OK")
	CodeUnknown       = ErrorCode("UNKNOWN")
	CodeInternal      = ErrCodeInternal
	CodeInvalidParam  = ErrCodeBadRequest
	CodeNotFound      = ErrCodeNotFound
	CodeDatabaseError = ErrCodeDatabaseError
	CodeCacheError    = ErrCodeCacheError
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.  Reaction codes
// map to 200 because the prediction endpoint reports them in the body.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeMissingCompound:      http.StatusOK,
	ErrCodeUnparsableCompound:   http.StatusOK,
	ErrCodeNotAnAlcohol:         http.StatusOK,
	ErrCodeIncompatibleCatalyst: http.StatusOK,
	ErrCodeUnsupportedReaction:  http.StatusOK,
	ErrCodePathwayNotDetermined: http.StatusOK,
	ErrCodePredictionFault:      http.StatusOK,

	ErrCodeMoleculeInvalidSMILES: http.StatusBadRequest,
	ErrCodeMoleculeValence:       http.StatusBadRequest,
	ErrCodeRenderFailed:          http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "messaging error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeMissingCompound:      "Please enter a compound",
	ErrCodeUnparsableCompound:   "compound could not be parsed",
	ErrCodeNotAnAlcohol:         "compound is not an alcohol or phenol",
	ErrCodeIncompatibleCatalyst: "catalyst is not suitable for this reaction",
	ErrCodeUnsupportedReaction:  "reaction type not supported",
	ErrCodePathwayNotDetermined: "Couldn't determine reaction product",
	ErrCodePredictionFault:      "An error occurred",

	ErrCodeMoleculeInvalidSMILES: "invalid SMILES format",
	ErrCodeMoleculeValence:       "atom valence exceeded",
	ErrCodeRenderFailed:          "failed to render structure",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
