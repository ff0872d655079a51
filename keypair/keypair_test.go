package keypair

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/NebulousLabs/errors"
	"gitlab.com/NebulousLabs/fastrand"
)

func TestAddressRoundTrip(t *testing.T) {
	for i := 0; i < 10; i++ {
		pk := Generate().PublicKey()
		parsed, err := ParsePublicKey(pk.String())
		require.NoError(t, err)
		assert.Equal(t, pk, parsed)
	}
}

func TestParsePublicKeyInvalid(t *testing.T) {
	good := Generate().PublicKey().String()
	raw, err := base58.Decode(good)
	require.NoError(t, err)

	flipped := append([]byte(nil), raw...)
	flipped[10] ^= 0xff

	wrongType := append([]byte(nil), raw[:len(raw)-checksumLen]...)
	wrongType[1] = 0x02
	wrongType = append(wrongType, checksum(wrongType)...)

	invalid := []string{
		"",
		"0OIl",
		base58.Encode(raw[:20]),
		base58.Encode(flipped),
		base58.Encode(wrongType),
	}
	for _, s := range invalid {
		_, err := ParsePublicKey(s)
		assert.True(t, errors.Contains(err, ErrInvalidAddress), "accepted %q", s)
	}
}

func TestSignVerify(t *testing.T) {
	kp := Generate()
	msg := fastrand.Bytes(64)
	sig := kp.Sign(msg)
	assert.True(t, kp.PublicKey().Verify(msg, sig))

	msg[0] ^= 1
	assert.False(t, kp.PublicKey().Verify(msg, sig))
	assert.False(t, Generate().PublicKey().Verify(msg, sig))
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "gateway_key.bin")
	kp := Generate()
	require.NoError(t, kp.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(defaultFilePerm), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey(), loaded.PublicKey())
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(garbage, fastrand.Bytes(80), 0600))
	_, err = Load(garbage)
	assert.Error(t, err)

	short := filepath.Join(dir, "short")
	require.NoError(t, os.WriteFile(short, []byte{1, 2, 3}, 0600))
	_, err = Load(short)
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.bin")
	kp, err := Create(path, false)
	require.NoError(t, err)

	_, err = Create(path, false)
	assert.True(t, errors.Contains(err, ErrKeyFileExists))

	replaced, err := Create(path, true)
	require.NoError(t, err)
	assert.NotEqual(t, kp.PublicKey(), replaced.PublicKey())
}

func TestLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.bin")
	kp, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, kp.PublicKey(), again.PublicKey())
}
