// txtypes
package modules

import (
	"gitlab.com/NebulousLabs/encoding"
	"gitlab.com/NebulousLabs/errors"

	"gitlab.com/scpcorp/gatewayd/keypair"
)

// GatewayMode is the capability level a gateway is added with.
type GatewayMode int

const (
	GatewayModeDataOnly GatewayMode = iota
	GatewayModeLight
	GatewayModeFull
)

const (
	// AddGatewayFee is the transaction fee of an add-gateway transaction.
	AddGatewayFee = 65000
)

// ErrUnknownGatewayMode is returned when parsing an unknown mode.
var ErrUnknownGatewayMode = errors.New("unknown gateway mode")

func (m GatewayMode) String() string {
	return [...]string{
		"dataonly",
		"light",
		"full",
	}[m]
}

// ParseGatewayMode reads a GatewayMode from its String form.
func ParseGatewayMode(s string) (GatewayMode, error) {
	switch s {
	case "dataonly":
		return GatewayModeDataOnly, nil
	case "light":
		return GatewayModeLight, nil
	case "full":
		return GatewayModeFull, nil
	}
	return 0, errors.AddContext(ErrUnknownGatewayMode, s)
}

// StakingFee returns the staking fee charged for adding a gateway in mode m.
func (m GatewayMode) StakingFee() uint64 {
	if m == GatewayModeDataOnly {
		return 1000000
	}
	return 4000000
}

// AddGatewayTxn adds a gateway to the network. It is signed by the gateway
// key; owner and payer sign it later, outside this daemon.
type AddGatewayTxn struct {
	Gateway    keypair.PublicKey
	Owner      keypair.PublicKey
	Payer      keypair.PublicKey
	Mode       string
	Fee        uint64
	StakingFee uint64

	GatewaySignature []byte
}

// NewAddGatewayTxn returns the unsigned transaction adding gateway in mode.
func NewAddGatewayTxn(gateway, owner, payer keypair.PublicKey, mode GatewayMode) AddGatewayTxn {
	return AddGatewayTxn{
		Gateway:    gateway,
		Owner:      owner,
		Payer:      payer,
		Mode:       mode.String(),
		Fee:        AddGatewayFee,
		StakingFee: mode.StakingFee(),
	}
}

// SigHash returns the bytes the gateway signs: the encoded transaction
// without any signature.
func (txn AddGatewayTxn) SigHash() []byte {
	txn.GatewaySignature = nil
	return encoding.Marshal(txn)
}

// Sign sets the gateway signature using kp.
func (txn *AddGatewayTxn) Sign(kp *keypair.Keypair) {
	txn.GatewaySignature = kp.Sign(txn.SigHash())
}

// VerifyGatewaySignature reports whether the transaction carries a valid
// signature by its gateway key.
func (txn AddGatewayTxn) VerifyGatewaySignature() bool {
	return txn.Gateway.Verify(txn.SigHash(), txn.GatewaySignature)
}
