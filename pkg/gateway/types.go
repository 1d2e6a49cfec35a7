package gateway

import (
	"github.com/harun/agentbuilder/pkg/memory"
)

// ActRequest is the body of POST /act and the params of the websocket "act" method.
// Nil flags fall back to the server defaults.
type ActRequest struct {
	Input           string `json:"input"`
	FormatResponse  *bool  `json:"format_response,omitempty"`
	ShowFullDetails *bool  `json:"show_full_details,omitempty"`
}

// ActResponse carries the reply of one act. ErrorKind is empty on success.
type ActResponse struct {
	Text      string `json:"text"`
	ErrorKind string `json:"error_kind,omitempty"`
	Action    string `json:"action,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// HistoryResponse lists the interactions in memory, oldest first.
type HistoryResponse struct {
	MaxTurns     int                  `json:"max_turns"`
	Interactions []memory.Interaction `json:"interactions"`
}

// StatusResponse is returned by /reset and /healthz.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is returned for rejected HTTP requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RPCRequest is one websocket message.
type RPCRequest struct {
	ID      string     `json:"id"`
	Method  string     `json:"method"`
	Params  ActRequest `json:"params"`
	JSONRPC string     `json:"jsonrpc"`
}

// RPCResponse answers one RPCRequest.
type RPCResponse struct {
	ID      string    `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
	JSONRPC string    `json:"jsonrpc"`
}

// RPCError represents a JSON-RPC 2.0 error
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface
func (e *RPCError) Error() string {
	return e.Message
}

// RPC error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// Websocket methods.
const (
	MethodAct     = "act"
	MethodReset   = "reset"
	MethodHistory = "history"
)
