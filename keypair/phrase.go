package keypair

import (
	"bytes"
	"crypto/ed25519"

	mnemonics "gitlab.com/NebulousLabs/entropy-mnemonics"
	"gitlab.com/NebulousLabs/errors"
	"golang.org/x/crypto/blake2b"
)

// PhraseChecksumSize is the number of checksum bytes encoded into a seed
// phrase after the seed.
const PhraseChecksumSize = 6

// ErrBadPhrase is returned for a seed phrase of the wrong length or with a
// checksum mismatch.
var ErrBadPhrase = errors.New("invalid seed phrase")

// Phrase renders the keypair's seed as an English word list that FromPhrase
// turns back into the same keypair.
func (kp *Keypair) Phrase() (string, error) {
	sum := blake2b.Sum256(kp.seed[:])
	entropy := make([]byte, 0, ed25519.SeedSize+PhraseChecksumSize)
	entropy = append(entropy, kp.seed[:]...)
	entropy = append(entropy, sum[:PhraseChecksumSize]...)
	phrase, err := mnemonics.ToPhrase(entropy, mnemonics.English)
	if err != nil {
		return "", err
	}
	return phrase.String(), nil
}

// FromPhrase restores a keypair from a phrase created by Phrase.
func FromPhrase(s string) (*Keypair, error) {
	b, err := mnemonics.FromString(s, mnemonics.English)
	if err != nil {
		return nil, errors.Compose(ErrBadPhrase, err)
	}
	if len(b) != ed25519.SeedSize+PhraseChecksumSize {
		return nil, ErrBadPhrase
	}
	var seed [ed25519.SeedSize]byte
	copy(seed[:], b)
	sum := blake2b.Sum256(seed[:])
	if !bytes.Equal(b[ed25519.SeedSize:], sum[:PhraseChecksumSize]) {
		return nil, ErrBadPhrase
	}
	return fromSeed(seed), nil
}
