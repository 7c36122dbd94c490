package ens

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Namehash computes the EIP-137 node for a dot-separated ENS name.
// The empty name hashes to the zero node.
func Namehash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		copy(node[:], crypto.Keccak256(node[:], labelHash))
	}
	return node
}

// ReverseNode computes the node of the <address>.addr.reverse name used for
// primary-name lookups. The address labels must be lowercase hex without the
// 0x prefix.
func ReverseNode(addr common.Address) [32]byte {
	hex := strings.ToLower(strings.TrimPrefix(addr.Hex(), "0x"))
	return Namehash(hex + ".addr.reverse")
}
