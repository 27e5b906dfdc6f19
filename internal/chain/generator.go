package chain

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Variant selects the address and signature format produced by a Generator.
type Variant string

const (
	// VariantEVM produces 0x-prefixed lowercase hex identifiers (BNB Smart Chain style).
	VariantEVM Variant = "evm"
	// VariantSolana produces base58 identifiers without a prefix.
	VariantSolana Variant = "solana"
)

const (
	hexAlphabet    = "0123456789abcdef"
	base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

	evmPrefix          = "0x"
	evmAddressDigits   = 40
	evmSignatureDigits = 64

	solanaAddressLength   = 44
	solanaSignatureLength = 88
)

// Generator synthesizes chain-shaped wallet addresses and transaction signatures.
// Values are random and only reproducible in distribution.
type Generator interface {
	Address() string
	Signature() string
}

// NewGenerator returns the generator for the requested variant.
func NewGenerator(v Variant) (Generator, error) {
	switch Variant(strings.ToLower(string(v))) {
	case VariantEVM, "":
		return evmGenerator{}, nil
	case VariantSolana:
		return solanaGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown chain variant %q", v)
	}
}

// NetworkName is the display name reported by the health endpoint.
func NetworkName(v Variant) string {
	if v == VariantSolana {
		return "Solana Devnet (Simulated)"
	}
	return "BNB Smart Chain Testnet (Simulated)"
}

type evmGenerator struct{}

func (evmGenerator) Address() string {
	return evmPrefix + draw(hexAlphabet, evmAddressDigits)
}

func (evmGenerator) Signature() string {
	return evmPrefix + draw(hexAlphabet, evmSignatureDigits)
}

type solanaGenerator struct{}

func (solanaGenerator) Address() string {
	return draw(base58Alphabet, solanaAddressLength)
}

func (solanaGenerator) Signature() string {
	return draw(base58Alphabet, solanaSignatureLength)
}

func draw(alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}
