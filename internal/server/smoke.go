package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// RunSmokeTest exercises the four tools against the live resolver and
// prints human-readable results. It backs the test transport mode.
func (s *Server) RunSmokeTest(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "Testing ENS MCP Server")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	fmt.Fprintln(out, "\nTesting ENS Resolution:")
	resolved := s.callTool(ctx, "resolve_ens_name", map[string]any{"ens_name": "vitalik.eth"})
	if err := printResult(out, "vitalik.eth", resolved); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nTesting Reverse Resolution:")
	if resolved["success"] == true {
		if address, ok := resolved["address"].(string); ok {
			reversed := s.callTool(ctx, "reverse_resolve_address", map[string]any{"address": address})
			if err := printResult(out, address, reversed); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(out, "\nTesting Text Records:")
	text := s.callTool(ctx, "get_ens_text_record", map[string]any{"ens_name": "vitalik.eth", "key": "url"})
	if err := printResult(out, "vitalik.eth url", text); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nTesting Comprehensive Info:")
	info := s.callTool(ctx, "get_ens_info", map[string]any{"ens_name": "vitalik.eth"})
	if err := printResult(out, "vitalik.eth info", info); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nTesting completed!")
	return nil
}

func printResult(out io.Writer, label string, result Result) error {
	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s -> %s\n", label, pretty)
	return err
}
