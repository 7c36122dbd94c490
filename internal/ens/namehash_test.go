package ens

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

// Vectors from EIP-137.
func TestNamehash(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"eth", "93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae"},
		{"foo.eth", "de9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"},
	}
	for _, tc := range cases {
		node := Namehash(tc.name)
		assert.Equal(t, tc.want, hex.EncodeToString(node[:]), "namehash(%q)", tc.name)
	}
}

func TestReverseNode(t *testing.T) {
	addr := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")

	want := Namehash("d8da6bf26964af9d7eed9e03e53415d37aa96045.addr.reverse")
	assert.Equal(t, want, ReverseNode(addr))

	// Input casing must not matter.
	upper := common.HexToAddress("0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045")
	assert.Equal(t, want, ReverseNode(upper))
}

func TestIsValidAddressFormat(t *testing.T) {
	c := &Client{}

	assert.True(t, c.IsValidAddressFormat("0xd8da6bf26964af9d7eed9e03e53415d37aa96045"))
	assert.True(t, c.IsValidAddressFormat("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"))
	assert.False(t, c.IsValidAddressFormat("not-an-address"))
	assert.False(t, c.IsValidAddressFormat("0x1234"))
	assert.False(t, c.IsValidAddressFormat(""))
}

// Vectors from EIP-55.
func TestToChecksumAddress(t *testing.T) {
	c := &Client{}

	cases := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, want := range cases {
		assert.Equal(t, want, c.ToChecksumAddress(strings.ToLower(want)))
	}
}
