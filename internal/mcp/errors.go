// Package mcp implements the Model Context Protocol server for amanels.
package mcp

import (
	"context"
	"errors"
	"fmt"

	elserrors "github.com/Aman-CERP/amanels/internal/errors"
)

// Custom MCP error codes for amanels.
const (
	// ErrCodeCorpusNotFound indicates the corpus file does not exist.
	ErrCodeCorpusNotFound = -32001

	// ErrCodeCorpusTooLarge indicates the corpus exceeds the size limit.
	ErrCodeCorpusTooLarge = -32002

	// ErrCodeTimeout indicates the request timed out or was cancelled.
	ErrCodeTimeout = -32003

	// ErrCodeHistoryUnavailable indicates the history store failed or is off.
	ErrCodeHistoryUnavailable = -32004

	// Standard JSON-RPC error codes.
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// MCPError is an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}
	if ee, ok := elserrors.As(err); ok {
		return mapElsError(ee)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}
}

// NewInvalidParamsError creates an error for invalid parameters.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError creates an error for unknown tools.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{Code: ErrCodeMethodNotFound, Message: fmt.Sprintf("Tool '%s' not found.", name)}
}

func mapElsError(ee *elserrors.ElsError) *MCPError {
	message := ee.Message
	if ee.Suggestion != "" {
		message = fmt.Sprintf("%s. %s", ee.Message, ee.Suggestion)
	}

	switch ee.Code {
	case elserrors.ErrCodeFileNotFound:
		return &MCPError{Code: ErrCodeCorpusNotFound, Message: message}
	case elserrors.ErrCodeFileTooLarge:
		return &MCPError{Code: ErrCodeCorpusTooLarge, Message: message}
	case elserrors.ErrCodeHistoryStore, elserrors.ErrCodeHistoryLocked, elserrors.ErrCodeHistoryCorrupt:
		return &MCPError{Code: ErrCodeHistoryUnavailable, Message: message}
	case elserrors.ErrCodeEntryNotFound:
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	}

	switch ee.Category {
	case elserrors.CategoryValidation:
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	}
}
