package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds one request line on the stdio transport.
const maxLineSize = 1 << 20

// ServeStdio runs the read-serve-write loop over the given streams: one
// request line in, one response line out, flushed per line. It returns nil
// on end of input or context cancellation; a malformed line produces a parse
// error response and the loop continues.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.log.Info("Starting ENS MCP Server with stdio transport")

	w := bufio.NewWriter(out)
	lines := make(chan string)
	var readErr error

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr = scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Server shutdown requested")
			return nil
		case line, ok := <-lines:
			if !ok {
				if readErr != nil {
					s.log.WithError(readErr).Error("Server error")
				}
				s.log.Info("ENS MCP Server stopped")
				return nil
			}
			resp := s.handleLine(ctx, strings.TrimSpace(line))
			if err := writeResponse(w, resp); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// handleLine parses one input line and dispatches it. A line that is not
// valid JSON, including a whitespace-only one, yields a parse error
// response with no id.
func (s *Server) handleLine(ctx context.Context, line string) *Response {
	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.log.WithError(err).Error("Invalid JSON received")
		return &Response{Error: &RPCError{Code: CodeParseError, Message: "Parse error"}}
	}
	return s.HandleMessage(ctx, &req)
}

// writeResponse emits exactly one JSON payload plus one newline and flushes,
// so responses are never held in the buffer.
func writeResponse(w *bufio.Writer, resp *Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}
