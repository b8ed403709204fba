package mcpserver

import (
	"errors"
	"fmt"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeNotFound      = -32001 // Entry or profile does not exist
)

// ErrEngineRequired is returned when NewServer is given no engine.
var ErrEngineRequired = errors.New("engine required")

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    any
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data any) *MCPError {
	return &MCPError{Code: code, Message: message, Data: data}
}
