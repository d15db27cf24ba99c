package response

import "fmt"

// Device error codes (eid).
const (
	CodeUnrecognizedCommand = 1
	CodeInvalidID           = 2
	CodeWrongArguments      = 3
	CodeResourceNotFound    = 4
	CodeResourceInUse       = 5
	CodeInvalidCredentials  = 6
	CodeUserNotLoggedIn     = 7
	CodeUserNotFound        = 8
	CodeInternalError       = 9
	CodeSystemError         = 10
	CodeProcessingError     = 12
	CodeMediaNotFound       = 13
	CodeOptionNotSupported  = 14
	CodeTooManyRequests     = 15
	CodeCommandNotProcessed = 16
)

var codeNames = map[int]string{
	CodeUnrecognizedCommand: "unrecognized command",
	CodeInvalidID:           "invalid id",
	CodeWrongArguments:      "wrong arguments",
	CodeResourceNotFound:    "resource not found",
	CodeResourceInUse:       "resource in use",
	CodeInvalidCredentials:  "invalid credentials",
	CodeUserNotLoggedIn:     "user not logged in",
	CodeUserNotFound:        "user not found",
	CodeInternalError:       "internal error",
	CodeSystemError:         "system error",
	CodeProcessingError:     "processing error",
	CodeMediaNotFound:       "media not found",
	CodeOptionNotSupported:  "option not supported",
	CodeTooManyRequests:     "too many requests",
	CodeCommandNotProcessed: "command not processed",
}

// DeviceError is an error reported by the device with result=fail.
type DeviceError struct {
	Code int
	Text string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("heos error %d: %s", e.Code, e.Text)
}

// CodeName returns a short name for a known code.
func CodeName(code int) string {
	if n, ok := codeNames[code]; ok {
		return n
	}
	return fmt.Sprintf("code %d", code)
}
