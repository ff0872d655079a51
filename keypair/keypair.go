// Package keypair manages the gateway's ed25519 identity: generating it,
// persisting it to the key file and rendering its public half as a b58check
// address.
package keypair

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
	"gitlab.com/NebulousLabs/errors"
	"gitlab.com/NebulousLabs/fastrand"
)

const (
	// addressVersion is the first byte of every b58check address.
	addressVersion = 0x00

	// KeyTypeEd25519 identifies an ed25519 public key inside an address.
	KeyTypeEd25519 = 0x01

	// checksumLen is the length of the b58check checksum.
	checksumLen = 4

	// addressLen is the decoded length of an address: version, key type,
	// key, checksum.
	addressLen = 1 + 1 + ed25519.PublicKeySize + checksumLen
)

var (
	// ErrInvalidAddress is returned when a string is not a valid address.
	ErrInvalidAddress = errors.New("invalid address")

	errBadChecksum = errors.New("address checksum mismatch")
	errBadKeyType  = errors.New("unsupported key type")
)

// PublicKey is an ed25519 public key.
type PublicKey [ed25519.PublicKeySize]byte

// Keypair is the gateway's signing identity.
type Keypair struct {
	seed [ed25519.SeedSize]byte
	priv ed25519.PrivateKey
}

// Generate returns a new random keypair.
func Generate() *Keypair {
	var seed [ed25519.SeedSize]byte
	fastrand.Read(seed[:])
	return fromSeed(seed)
}

func fromSeed(seed [ed25519.SeedSize]byte) *Keypair {
	return &Keypair{
		seed: seed,
		priv: ed25519.NewKeyFromSeed(seed[:]),
	}
}

// PublicKey returns the public half of the keypair.
func (kp *Keypair) PublicKey() (pk PublicKey) {
	copy(pk[:], kp.priv.Public().(ed25519.PublicKey))
	return
}

// Sign signs msg.
func (kp *Keypair) Sign(msg []byte) []byte {
	return ed25519.Sign(kp.priv, msg)
}

// Verify reports whether sig is pk's signature of msg.
func (pk PublicKey) Verify(msg, sig []byte) bool {
	return ed25519.Verify(pk[:], msg, sig)
}

// String returns the b58check address of pk.
func (pk PublicKey) String() string {
	payload := make([]byte, 0, addressLen)
	payload = append(payload, addressVersion, KeyTypeEd25519)
	payload = append(payload, pk[:]...)
	payload = append(payload, checksum(payload)...)
	return base58.Encode(payload)
}

// ParsePublicKey parses a b58check address.
func ParsePublicKey(s string) (pk PublicKey, err error) {
	b, err := base58.Decode(s)
	if err != nil {
		return pk, errors.Compose(ErrInvalidAddress, err)
	}
	if len(b) != addressLen {
		return pk, errors.Compose(ErrInvalidAddress, fmt.Errorf("decoded length %v, expected %v", len(b), addressLen))
	}
	payload, sum := b[:len(b)-checksumLen], b[len(b)-checksumLen:]
	if string(checksum(payload)) != string(sum) {
		return pk, errors.Compose(ErrInvalidAddress, errBadChecksum)
	}
	if payload[0] != addressVersion {
		return pk, errors.Compose(ErrInvalidAddress, fmt.Errorf("unsupported address version %v", payload[0]))
	}
	if payload[1] != KeyTypeEd25519 {
		return pk, errors.Compose(ErrInvalidAddress, errBadKeyType)
	}
	copy(pk[:], payload[2:])
	return pk, nil
}

// checksum is the first four bytes of the double SHA-256 of payload.
func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}
