// txtypes_test
package modules

import (
	"testing"

	"gitlab.com/NebulousLabs/encoding"
	"gitlab.com/NebulousLabs/errors"

	"gitlab.com/scpcorp/gatewayd/keypair"
)

// TestGatewayModeParse tests that every mode survives String and Parse.
func TestGatewayModeParse(t *testing.T) {
	for _, m := range []GatewayMode{GatewayModeDataOnly, GatewayModeLight, GatewayModeFull} {
		parsed, err := ParseGatewayMode(m.String())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != m {
			t.Errorf("expected %v, got %v", m, parsed)
		}
	}
	if _, err := ParseGatewayMode("turbo"); !errors.Contains(err, ErrUnknownGatewayMode) {
		t.Error("expected ErrUnknownGatewayMode, got", err)
	}
}

// TestGatewayModeStakingFee tests the staking fee of each mode.
func TestGatewayModeStakingFee(t *testing.T) {
	if fee := GatewayModeDataOnly.StakingFee(); fee != 1000000 {
		t.Errorf("dataonly staking fee %v", fee)
	}
	if GatewayModeLight.StakingFee() != GatewayModeFull.StakingFee() {
		t.Error("light and full staking fees differ")
	}
}

// TestAddGatewayTxnSign tests signing an add-gateway transaction and
// verifying it after an encode/decode trip.
func TestAddGatewayTxnSign(t *testing.T) {
	gw := keypair.Generate()
	owner := keypair.Generate().PublicKey()
	payer := keypair.Generate().PublicKey()

	txn := NewAddGatewayTxn(gw.PublicKey(), owner, payer, GatewayModeFull)
	if txn.VerifyGatewaySignature() {
		t.Fatal("unsigned transaction verified")
	}
	txn.Sign(gw)
	if !txn.VerifyGatewaySignature() {
		t.Fatal("signed transaction did not verify")
	}

	var decoded AddGatewayTxn
	if err := encoding.Unmarshal(encoding.Marshal(txn), &decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.VerifyGatewaySignature() {
		t.Fatal("decoded transaction did not verify")
	}
	if decoded.Mode != "full" || decoded.Fee != AddGatewayFee {
		t.Errorf("unexpected decoded transaction %+v", decoded)
	}

	// Tampering with any field invalidates the signature.
	decoded.Payer = owner
	if decoded.VerifyGatewaySignature() {
		t.Error("tampered transaction verified")
	}
}
