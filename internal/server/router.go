// Package server implements the MCP dispatcher for ENS resolution: wire
// types, method routing, the stdio message loop, and an HTTP transport.
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	serverName        = "ENS MCP Server"
	serverVersion     = "1.0.0"
	serverDescription = "A Model Context Protocol server for Ethereum Name Service resolution"
	serverAuthor      = "ENS MCP Team"
	protocolVersion   = "2024-11-05"
)

// Resolver is the ENS collaborator the dispatcher calls into. All lookup
// methods report clean absence with ens.ErrNotFound and protocol failures
// with *ens.Error.
type Resolver interface {
	Resolve(ctx context.Context, name string, coinType uint64) (string, error)
	ReverseResolve(ctx context.Context, address string) (string, error)
	Text(ctx context.Context, name, key string) (string, error)
	Owner(ctx context.Context, name string) (string, error)
	ResolverAddress(ctx context.Context, name string) (string, error)
	IsValidAddressFormat(s string) bool
	ToChecksumAddress(s string) string
	IsConnected(ctx context.Context) bool
}

// Config contains server configuration values for the HTTP transport.
type Config struct {
	// Token, when set, requires a matching bearer token on /mcp routes.
	Token string
}

type toolHandler func(ctx context.Context, args map[string]any) (Result, error)

// Server dispatches protocol requests to the four ENS tools.
type Server struct {
	cfg          Config
	resolver     Resolver
	log          *logrus.Logger
	toolHandlers map[string]toolHandler
}

// New constructs a Server around the given resolver. A nil logger falls back
// to the logrus standard logger.
func New(cfg Config, resolver Resolver, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{cfg: cfg, resolver: resolver, log: log}
	s.registerToolHandlers()
	return s
}

func (s *Server) registerToolHandlers() {
	s.toolHandlers = map[string]toolHandler{
		"resolve_ens_name":        s.resolveENSName,
		"reverse_resolve_address": s.reverseResolveAddress,
		"get_ens_text_record":     s.getENSTextRecord,
		"get_ens_info":            s.getENSInfo,
	}
}

// HandleMessage turns one parsed Request into one Response. Every failure
// path produces an error Response; nothing escapes to the caller.
func (s *Server) HandleMessage(ctx context.Context, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = &Response{
				ID:    req.ID,
				Error: &RPCError{Code: CodeInternalError, Message: fmt.Sprintf("Internal error: %v", r)},
			}
		}
	}()

	switch req.Method {
	case "initialize":
		return &Response{ID: req.ID, Result: map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{"listChanged": true},
			},
			"serverInfo": serverInfo(),
		}}

	case "tools/list":
		return &Response{ID: req.ID, Result: map[string]any{"tools": toolList()}}

	case "tools/call":
		var params CallParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return &Response{
					ID:    req.ID,
					Error: &RPCError{Code: CodeInternalError, Message: fmt.Sprintf("Internal error: %v", err)},
				}
			}
		}
		result := s.callTool(ctx, params.Name, params.Arguments)
		text, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return &Response{
				ID:    req.ID,
				Error: &RPCError{Code: CodeInternalError, Message: fmt.Sprintf("Internal error: %v", err)},
			}
		}
		return &Response{ID: req.ID, Result: map[string]any{
			"content": []ContentBlock{{Type: "text", Text: string(text)}},
		}}

	default:
		return &Response{
			ID:    req.ID,
			Error: &RPCError{Code: CodeMethodNotFound, Message: "Method not found: " + req.Method},
		}
	}
}

// callTool routes a tools/call to the named tool. Routing failures (unknown
// tool, bad arguments) come back as failure envelopes so the protocol call
// itself still succeeds.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) Result {
	handler, ok := s.toolHandlers[name]
	if !ok {
		return fail("Unknown tool: "+name, nil)
	}
	result, err := handler(ctx, args)
	if err != nil {
		return fail("Error handling tool call: "+err.Error(), nil)
	}
	return result
}

func serverInfo() map[string]any {
	return map[string]any{
		"name":        serverName,
		"version":     serverVersion,
		"description": serverDescription,
		"author":      serverAuthor,
		"capabilities": map[string]any{
			"tools":     true,
			"resources": false,
			"prompts":   false,
		},
	}
}
