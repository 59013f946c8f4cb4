package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer = 1000
	ErrInvalidParams  = 1001
	ErrNotFound       = 1002
	ErrBadRequest     = 1003
	ErrServiceUnavail = 1004

	// File errors (2000-2999)
	ErrFileMissingName = 2000
	ErrFileInvalidType = 2001
	ErrFileEmpty       = 2002
	ErrFileNotFound    = 2003

	// Backend errors (3000-3999)
	ErrStorageFailed  = 3000
	ErrObjectNotFound = 3001
	ErrDatabaseFailed = 3002
	ErrConfigInvalid  = 3003
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer: {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:  {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:       {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrBadRequest:     {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrServiceUnavail: {ErrServiceUnavail, http.StatusServiceUnavailable, "Service unavailable"},

	// File errors
	ErrFileMissingName: {ErrFileMissingName, http.StatusBadRequest, "Filename is required"},
	ErrFileInvalidType: {ErrFileInvalidType, http.StatusBadRequest, "Unsupported file type"},
	ErrFileEmpty:       {ErrFileEmpty, http.StatusBadRequest, "File is empty"},
	ErrFileNotFound:    {ErrFileNotFound, http.StatusNotFound, "File not found"},

	// Backend errors
	ErrStorageFailed:  {ErrStorageFailed, http.StatusInternalServerError, "Storage operation failed"},
	ErrObjectNotFound: {ErrObjectNotFound, http.StatusNotFound, "File not found"},
	ErrDatabaseFailed: {ErrDatabaseFailed, http.StatusInternalServerError, "Database operation failed"},
	ErrConfigInvalid:  {ErrConfigInvalid, http.StatusInternalServerError, "Invalid configuration"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsClientError checks if the code represents a client error (4xx)
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// IsServerError checks if the code represents a server error (5xx)
func IsServerError(code int) bool {
	return GetHTTPStatus(code) >= 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
