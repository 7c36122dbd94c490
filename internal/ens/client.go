// Package ens provides a minimal client for Ethereum Name Service lookups
// against the mainnet registry.
package ens

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
)

// registryAddress is the ENS registry, deployed at the same address on
// mainnet and the public testnets.
const registryAddress = "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"

// EthCoinType is the SLIP-44 coin type for native Ethereum addresses.
const EthCoinType = 60

// ErrNotFound reports that a name, address, or record has no value set.
// It is a clean absence, not a protocol failure.
var ErrNotFound = errors.New("ens: not found")

// Error reports a failure talking to the ENS contracts or the node, as
// opposed to a lookup that cleanly found nothing.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("ens %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

const registryABIJSON = `[
	{"type":"function","name":"resolver","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}
]`

const resolverABIJSON = `[
	{"type":"function","name":"addr","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"name","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"text","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"}],"outputs":[{"name":"","type":"string"}]}
]`

// ENSIP-9 multi-coin variant, parsed separately so the overload does not
// collide with the legacy addr(bytes32) method.
const multiAddrABIJSON = `[
	{"type":"function","name":"addr","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"},{"name":"coinType","type":"uint256"}],"outputs":[{"name":"","type":"bytes"}]}
]`

var (
	registryABI  = mustABI(registryABIJSON)
	resolverABI  = mustABI(resolverABIJSON)
	multiAddrABI = mustABI(multiAddrABIJSON)
)

func mustABI(src string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Client resolves ENS names through an Ethereum JSON-RPC node.
type Client struct {
	eth      *ethclient.Client
	registry common.Address
}

// Dial connects to the Ethereum node at rawurl. HTTP connections are lazy,
// so use IsConnected to probe reachability.
func Dial(ctx context.Context, rawurl string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, &Error{Op: "dial", Err: err}
	}
	return &Client{eth: eth, registry: common.HexToAddress(registryAddress)}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// IsConnected reports whether the node answers a chain-id request.
func (c *Client) IsConnected(ctx context.Context) bool {
	_, err := c.eth.ChainID(ctx)
	return err == nil
}

// Resolve returns the address registered for name under the given coin type.
// Coin type 60 uses the legacy addr(bytes32) record; anything else uses the
// ENSIP-9 multi-coin record and returns the raw bytes as 0x-hex.
func (c *Client) Resolve(ctx context.Context, name string, coinType uint64) (string, error) {
	node := Namehash(name)
	resolver, err := c.resolverFor(ctx, node)
	if err != nil {
		return "", err
	}
	if coinType == EthCoinType {
		out, err := c.call(ctx, resolver, resolverABI, "addr", node)
		if err != nil {
			return "", err
		}
		addr, ok := out[0].(common.Address)
		if !ok {
			return "", &Error{Op: "addr", Err: errors.New("unexpected return type")}
		}
		if addr == (common.Address{}) {
			return "", ErrNotFound
		}
		return addr.Hex(), nil
	}
	out, err := c.call(ctx, resolver, multiAddrABI, "addr", node, new(big.Int).SetUint64(coinType))
	if err != nil {
		return "", err
	}
	raw, ok := out[0].([]byte)
	if !ok {
		return "", &Error{Op: "addr", Err: errors.New("unexpected return type")}
	}
	if len(raw) == 0 {
		return "", ErrNotFound
	}
	return hexutil.Encode(raw), nil
}

// ReverseResolve returns the primary ENS name registered for address.
func (c *Client) ReverseResolve(ctx context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", &Error{Op: "name", Err: fmt.Errorf("invalid address: %s", address)}
	}
	node := ReverseNode(common.HexToAddress(address))
	resolver, err := c.resolverFor(ctx, node)
	if err != nil {
		return "", err
	}
	out, err := c.call(ctx, resolver, resolverABI, "name", node)
	if err != nil {
		return "", err
	}
	name, ok := out[0].(string)
	if !ok {
		return "", &Error{Op: "name", Err: errors.New("unexpected return type")}
	}
	if name == "" {
		return "", ErrNotFound
	}
	return name, nil
}

// Text returns the text record stored for name under key.
func (c *Client) Text(ctx context.Context, name, key string) (string, error) {
	node := Namehash(name)
	resolver, err := c.resolverFor(ctx, node)
	if err != nil {
		return "", err
	}
	out, err := c.call(ctx, resolver, resolverABI, "text", node, key)
	if err != nil {
		return "", err
	}
	value, ok := out[0].(string)
	if !ok {
		return "", &Error{Op: "text", Err: errors.New("unexpected return type")}
	}
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

// Owner returns the registry owner of name.
func (c *Client) Owner(ctx context.Context, name string) (string, error) {
	out, err := c.call(ctx, c.registry, registryABI, "owner", Namehash(name))
	if err != nil {
		return "", err
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return "", &Error{Op: "owner", Err: errors.New("unexpected return type")}
	}
	if addr == (common.Address{}) {
		return "", ErrNotFound
	}
	return addr.Hex(), nil
}

// ResolverAddress returns the address of the resolver contract serving name.
func (c *Client) ResolverAddress(ctx context.Context, name string) (string, error) {
	resolver, err := c.resolverFor(ctx, Namehash(name))
	if err != nil {
		return "", err
	}
	return resolver.Hex(), nil
}

// IsValidAddressFormat reports whether s looks like a 20-byte hex address.
func (c *Client) IsValidAddressFormat(s string) bool {
	return common.IsHexAddress(s)
}

// ToChecksumAddress returns the EIP-55 checksummed form of s.
func (c *Client) ToChecksumAddress(s string) string {
	return common.HexToAddress(s).Hex()
}

// resolverFor looks up the resolver contract for node in the registry.
// A zero resolver means the name is not registered.
func (c *Client) resolverFor(ctx context.Context, node [32]byte) (common.Address, error) {
	out, err := c.call(ctx, c.registry, registryABI, "resolver", node)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, &Error{Op: "resolver", Err: errors.New("unexpected return type")}
	}
	if addr == (common.Address{}) {
		return common.Address{}, ErrNotFound
	}
	return addr, nil
}

// call performs a read-only contract call and unpacks the result.
func (c *Client) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, &Error{Op: method, Err: err}
	}
	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, &Error{Op: method, Err: err}
	}
	// Contracts without the method return no data instead of reverting.
	if len(raw) == 0 {
		return nil, ErrNotFound
	}
	out, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, &Error{Op: method, Err: err}
	}
	if len(out) == 0 {
		return nil, &Error{Op: method, Err: errors.New("empty return")}
	}
	return out, nil
}
