// Package encryption holds the ledger operator's signing key. The operator
// signs ledger checkpoints so a published Merkle root can later be tied to
// the key that issued it. Voters are not authenticated here.
package encryption

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

var ErrInvalidSignature = errors.New("invalid signature")

type CryptoService struct {
	privateKey *ecdsa.PrivateKey
}

// NewCryptoService generates a fresh operator key.
func NewCryptoService() (*CryptoService, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate operator key: %w", err)
	}
	return &CryptoService{privateKey: privateKey}, nil
}

// LoadOrGenerateKey parses keyHex, with or without a 0x prefix, or generates
// a new key when keyHex is empty.
func LoadOrGenerateKey(keyHex string) (*CryptoService, error) {
	if keyHex == "" {
		return NewCryptoService()
	}

	privateKey, err := ParsePrivateKey(keyHex)
	if err != nil {
		return nil, err
	}
	return &CryptoService{privateKey: privateKey}, nil
}

// ParsePrivateKey helper function
func ParsePrivateKey(keyStr string) (*ecdsa.PrivateKey, error) {
	keyStr = strings.TrimPrefix(keyStr, "0x")

	privateKey, err := crypto.HexToECDSA(keyStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return privateKey, nil
}

// Keccak256 computes Keccak-256 hash
func (cs *CryptoService) Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Sign signs the Keccak-256 hash of data with the operator key.
func (cs *CryptoService) Sign(data []byte) ([]byte, error) {
	return crypto.Sign(cs.Keccak256(data), cs.privateKey)
}

// VerifySignature checks that signature over data was produced by the key
// behind address.
func (cs *CryptoService) VerifySignature(data, signature []byte, address string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("%w: malformed signer address %q", ErrInvalidSignature, address)
	}

	pub, err := crypto.SigToPub(cs.Keccak256(data), signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if crypto.PubkeyToAddress(*pub) != common.HexToAddress(address) {
		return fmt.Errorf("%w: signed by %s, expected %s", ErrInvalidSignature, crypto.PubkeyToAddress(*pub).Hex(), address)
	}
	return nil
}

// Address is the operator's Ethereum-style address.
func (cs *CryptoService) Address() string {
	return crypto.PubkeyToAddress(cs.privateKey.PublicKey).Hex()
}

func (cs *CryptoService) PublicKeyHex() string {
	return hexutil.Encode(crypto.FromECDSAPub(&cs.privateKey.PublicKey))
}

// PrivateKeyHex exports the key so a generated key can be reused on restart.
func (cs *CryptoService) PrivateKeyHex() string {
	return hexutil.Encode(crypto.FromECDSA(cs.privateKey))
}
