package service

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"vote-ledger/encryption"
	"vote-ledger/models"
)

// Checkpoint is a ledger status snapshot signed by the operator key.
type Checkpoint struct {
	ID        string              `json:"id"`
	Status    models.LedgerStatus `json:"status"`
	IssuedAt  string              `json:"issued_at"`
	Signer    string              `json:"signer"`
	Signature string              `json:"signature"`
}

// message is the byte string the operator signs.
func (c *Checkpoint) message() []byte {
	return []byte(fmt.Sprintf("%s|%d|%d|%s|%s|%s",
		c.ID,
		c.Status.TotalVotes,
		c.Status.ChainLength,
		c.Status.MerkleRoot,
		c.Status.LastBlockDigest,
		c.IssuedAt,
	))
}

// Checkpoint signs the current status with the operator key.
func (l *Ledger) Checkpoint(signer *encryption.CryptoService) (*Checkpoint, error) {
	cp := &Checkpoint{
		ID:       uuid.New().String(),
		Status:   l.Status(),
		IssuedAt: l.clock().UTC().Format(time.RFC3339),
		Signer:   signer.Address(),
	}

	sig, err := signer.Sign(cp.message())
	if err != nil {
		return nil, fmt.Errorf("failed to sign checkpoint: %w", err)
	}
	cp.Signature = hexutil.Encode(sig)

	l.logger.Info("checkpoint issued", "id", cp.ID, "merkle_root", cp.Status.MerkleRoot, "signer", cp.Signer)
	return cp, nil
}

// VerifyCheckpoint checks that cp is unaltered and was signed by cp.Signer.
func VerifyCheckpoint(cs *encryption.CryptoService, cp *Checkpoint) error {
	sig, err := hexutil.Decode(cp.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", encryption.ErrInvalidSignature, err)
	}
	return cs.VerifySignature(cp.message(), sig, cp.Signer)
}
