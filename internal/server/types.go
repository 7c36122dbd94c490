package server

import "encoding/json"

// Reserved JSON-RPC error codes used by the protocol layer.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

// Request is one incoming protocol message. The id is opaque: it is kept as
// raw JSON so strings, numbers, and explicit nulls echo back verbatim.
type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the reply to one Request. Exactly one of Result or Error is
// set; an absent id stays absent.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result any             `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

// RPCError is a protocol-layer error, distinct from domain failures which
// travel inside a Result envelope.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Tool describes one MCP tool and its input schema.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// CallParams are the params of a tools/call request.
type CallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ContentBlock wraps a tool result for transport inside a tools/call
// response.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
