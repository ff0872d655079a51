package keypair

import (
	"crypto/ed25519"
	"os"
	"path/filepath"

	"gitlab.com/NebulousLabs/encoding"
	"gitlab.com/NebulousLabs/errors"
)

const (
	defaultFilePerm = 0600
	defaultDirPerm  = 0700

	specifierLen = 16
)

// specifier is a fixed-size, zero-padded identifier.
type specifier [specifierLen]byte

func newSpecifier(s string) (sp specifier) {
	copy(sp[:], s)
	return
}

// Persistence constants
var (
	// KeyFileMagic is the first piece of data found in a key file.
	KeyFileMagic = newSpecifier("GatewayKeypair")

	keyFileVersion = newSpecifier("1.0")

	// ErrKeyFileExists is returned by Create when the key file is already
	// present.
	ErrKeyFileExists = errors.New("key file already exists")

	errBadMagic   = errors.New("not a gateway key file")
	errBadVersion = errors.New("unsupported key file version")
)

// keyFile is the on-disk layout of a keypair.
type keyFile struct {
	Magic   specifier
	Version specifier
	Seed    [ed25519.SeedSize]byte
}

// Load reads the keypair stored at path.
func Load(path string) (*Keypair, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(err, "unable to read key file")
	}
	var kf keyFile
	if err := encoding.Unmarshal(b, &kf); err != nil {
		return nil, errors.AddContext(err, "unable to decode key file")
	}
	if kf.Magic != KeyFileMagic {
		return nil, errBadMagic
	}
	if kf.Version != keyFileVersion {
		return nil, errBadVersion
	}
	return fromSeed(kf.Seed), nil
}

// Save writes kp to path, replacing any existing file. The parent directory
// is created if needed.
func (kp *Keypair) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerm); err != nil {
		return errors.AddContext(err, "unable to create key directory")
	}
	b := encoding.Marshal(keyFile{
		Magic:   KeyFileMagic,
		Version: keyFileVersion,
		Seed:    kp.seed,
	})
	tmp := path + "_temp"
	if err := os.WriteFile(tmp, b, defaultFilePerm); err != nil {
		return errors.AddContext(err, "unable to write key file")
	}
	return errors.AddContext(os.Rename(tmp, path), "unable to move key file into place")
}

// Create generates a keypair and saves it to path. Unless force is set, an
// existing key file is left alone and ErrKeyFileExists is returned.
func Create(path string, force bool) (*Keypair, error) {
	return store(path, Generate(), force)
}

// Restore saves the keypair encoded by phrase to path, with the same
// overwrite rules as Create.
func Restore(path, phrase string, force bool) (*Keypair, error) {
	kp, err := FromPhrase(phrase)
	if err != nil {
		return nil, err
	}
	return store(path, kp, force)
}

func store(path string, kp *Keypair, force bool) (*Keypair, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return nil, ErrKeyFileExists
		}
	}
	if err := kp.Save(path); err != nil {
		return nil, err
	}
	return kp, nil
}

// LoadOrCreate loads the keypair at path, generating and saving a new one if
// the file does not exist. created reports whether a new key was made.
func LoadOrCreate(path string) (kp *Keypair, created bool, err error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		kp, err = Create(path, false)
		if err != nil {
			return nil, false, err
		}
		return kp, true, nil
	}
	kp, err = Load(path)
	if err != nil {
		return nil, false, err
	}
	return kp, false, nil
}
