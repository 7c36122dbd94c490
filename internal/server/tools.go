package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ens-mcp/internal/ens"
)

// commonTextKeys is the fixed set of text records aggregated by get_ens_info.
var commonTextKeys = []string{"url", "email", "twitter", "github", "discord", "telegram", "description"}

// Result is the normalized outcome of one domain operation. Exactly one of
// success:true (with a timestamp, no error) or success:false (with an error,
// no timestamp) holds.
type Result map[string]any

func succeed(fields Result) Result {
	out := Result{
		"success":   true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func fail(msg string, fields Result) Result {
	out := Result{
		"success": false,
		"error":   msg,
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// toolList returns the static tool descriptors advertised by tools/list.
func toolList() []Tool {
	return []Tool{
		{
			Name:        "resolve_ens_name",
			Description: "Resolve an ENS name to an Ethereum address",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ens_name": map[string]any{
						"type":        "string",
						"description": "The ENS name to resolve (e.g., 'vitalik.eth')",
					},
					"coin_type": map[string]any{
						"type":        "integer",
						"description": "Optional coin type for multi-chain address resolution (default: 60 for ETH)",
						"default":     60,
					},
				},
				"required": []string{"ens_name"},
			},
		},
		{
			Name:        "reverse_resolve_address",
			Description: "Reverse resolve an Ethereum address to find its primary ENS name",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"address": map[string]any{
						"type":        "string",
						"description": "The Ethereum address to reverse resolve (e.g., '0x...')",
					},
				},
				"required": []string{"address"},
			},
		},
		{
			Name:        "get_ens_text_record",
			Description: "Get a text record from an ENS name",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ens_name": map[string]any{
						"type":        "string",
						"description": "The ENS name to query",
					},
					"key": map[string]any{
						"type":        "string",
						"description": "The text record key (e.g., 'url', 'email', 'twitter', 'github')",
					},
				},
				"required": []string{"ens_name", "key"},
			},
		},
		{
			Name:        "get_ens_info",
			Description: "Get comprehensive information about an ENS name",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ens_name": map[string]any{
						"type":        "string",
						"description": "The ENS name to get information for",
					},
				},
				"required": []string{"ens_name"},
			},
		},
	}
}

// normalizeName trims and lowercases an ENS name; the naming scheme is
// case-insensitive.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// requiredString extracts a mandatory string argument. Errors here are
// routing-level and get the "Error handling tool call" prefix upstream.
func requiredString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %s must be a string", key)
	}
	return s, nil
}

// coinTypeArg extracts the optional coin_type argument, defaulting to ETH.
func coinTypeArg(args map[string]any) (uint64, error) {
	v, ok := args["coin_type"]
	if !ok {
		return ens.EthCoinType, nil
	}
	f, ok := v.(float64)
	if !ok || f < 0 || f != float64(uint64(f)) {
		return 0, errors.New("argument coin_type must be an integer")
	}
	return uint64(f), nil
}

// domainFailure formats a collaborator error, keeping resolver-protocol
// failures distinct from unexpected ones.
func domainFailure(err error, fields Result) Result {
	var ensErr *ens.Error
	if errors.As(err, &ensErr) {
		return fail("ENS error: "+err.Error(), fields)
	}
	return fail("Unexpected error: "+err.Error(), fields)
}

// resolveENSName resolves an ENS name to an address for the requested coin
// type. Absence of an address is a domain failure.
func (s *Server) resolveENSName(ctx context.Context, args map[string]any) (Result, error) {
	name, err := requiredString(args, "ens_name")
	if err != nil {
		return nil, err
	}
	coinType, err := coinTypeArg(args)
	if err != nil {
		return nil, err
	}
	name = normalizeName(name)
	base := Result{"ens_name": name, "coin_type": coinType}

	address, err := s.resolver.Resolve(ctx, name, coinType)
	switch {
	case errors.Is(err, ens.ErrNotFound):
		return fail("No address found for ENS name: "+name, base), nil
	case err != nil:
		return domainFailure(err, base), nil
	}
	base["address"] = address
	return succeed(base), nil
}

// reverseResolveAddress finds the primary ENS name for an address. Malformed
// input is rejected before any collaborator lookup.
func (s *Server) reverseResolveAddress(ctx context.Context, args map[string]any) (Result, error) {
	address, err := requiredString(args, "address")
	if err != nil {
		return nil, err
	}
	address = strings.TrimSpace(address)

	if !s.resolver.IsValidAddressFormat(address) {
		return fail("Invalid Ethereum address format: "+address, Result{"address": address}), nil
	}
	checksummed := s.resolver.ToChecksumAddress(address)

	name, err := s.resolver.ReverseResolve(ctx, checksummed)
	switch {
	case errors.Is(err, ens.ErrNotFound):
		return fail("No ENS name found for address: "+checksummed, Result{"address": checksummed}), nil
	case err != nil:
		return fail("Error during reverse resolution: "+err.Error(), Result{"address": checksummed}), nil
	}
	return succeed(Result{"address": checksummed, "ens_name": name}), nil
}

// getENSTextRecord fetches one text record. An absent record is a success
// with the value omitted; only protocol failures fail the operation.
func (s *Server) getENSTextRecord(ctx context.Context, args map[string]any) (Result, error) {
	name, err := requiredString(args, "ens_name")
	if err != nil {
		return nil, err
	}
	key, err := requiredString(args, "key")
	if err != nil {
		return nil, err
	}
	name = normalizeName(name)
	key = strings.ToLower(strings.TrimSpace(key))
	base := Result{"ens_name": name, "key": key}

	value, err := s.resolver.Text(ctx, name, key)
	if err != nil && !errors.Is(err, ens.ErrNotFound) {
		return fail("Error getting text record: "+err.Error(), base), nil
	}
	if err == nil && value != "" {
		base["value"] = value
	}
	return succeed(base), nil
}

// getENSInfo aggregates address, owner, resolver address, and the common
// text records. Sub-lookups run concurrently and degrade independently: a
// failed or absent field becomes null (or is omitted from text_records)
// rather than failing the aggregate.
func (s *Server) getENSInfo(ctx context.Context, args map[string]any) (Result, error) {
	name, err := requiredString(args, "ens_name")
	if err != nil {
		return nil, err
	}
	name = normalizeName(name)
	if name == "" {
		return fail("Error getting ENS info: empty ENS name", Result{"ens_name": name}), nil
	}

	var address, owner, resolverAddr *string
	textValues := make([]string, len(commonTextKeys))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if v, err := s.resolver.Resolve(gctx, name, ens.EthCoinType); err == nil {
			address = &v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := s.resolver.Owner(gctx, name); err == nil {
			owner = &v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := s.resolver.ResolverAddress(gctx, name); err == nil {
			resolverAddr = &v
		}
		return nil
	})
	for i, key := range commonTextKeys {
		g.Go(func() error {
			if v, err := s.resolver.Text(gctx, name, key); err == nil {
				textValues[i] = v
			}
			return nil
		})
	}
	// Sub-lookups never report errors; Wait is the fan-in barrier.
	_ = g.Wait()

	textRecords := map[string]string{}
	for i, key := range commonTextKeys {
		if textValues[i] != "" {
			textRecords[key] = textValues[i]
		}
	}
	return succeed(Result{
		"ens_name":     name,
		"address":      address,
		"owner":        owner,
		"resolver":     resolverAddr,
		"text_records": textRecords,
	}), nil
}
