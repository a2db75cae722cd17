package pkgbuilder

import (
	"bytes"
	"crypto"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/rpmbuilder/buildspec"
	"github.com/pkg/errors"
)

// pgpSigner signs with the first private key of an ASCII armored key
// ring.
type pgpSigner struct {
	entity *openpgp.Entity
	config *packet.Config
}

// LoadPGPSigner reads an ASCII armored PGP secret key from fn. An
// encrypted key is unlocked with passphrase; an encrypted key with an
// empty passphrase is a SigningFailure.
func LoadPGPSigner(fn string, passphrase []byte) (Signer, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, buildspec.WrapError(errors.Wrap(err, "unable to load private key file"),
			buildspec.SigningFailure, fn)
	}

	return newPGPSigner(fn, data, passphrase)
}

func newPGPSigner(name string, armored, passphrase []byte) (Signer, error) {
	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(armored))
	if err != nil {
		return nil, buildspec.WrapError(errors.Wrap(err, "unable to create signer from private key"),
			buildspec.SigningFailure, name)
	}

	var entity *openpgp.Entity
	for _, e := range keyring {
		if e.PrivateKey != nil {
			entity = e
			break
		}
	}
	if entity == nil {
		return nil, buildspec.NewError(buildspec.SigningFailure, name, "key ring holds no private key")
	}

	if err = unlock(entity, passphrase); err != nil {
		return nil, buildspec.WrapError(err, buildspec.SigningFailure, name)
	}

	grip.Debug(message.Fields{
		"message": "loaded signing key",
		"key":     name,
		"key_id":  entity.PrimaryKey.KeyIdString(),
	})

	return &pgpSigner{
		entity: entity,
		config: &packet.Config{DefaultHash: crypto.SHA256},
	}, nil
}

func unlock(entity *openpgp.Entity, passphrase []byte) error {
	keys := []*packet.PrivateKey{entity.PrivateKey}
	for _, sub := range entity.Subkeys {
		if sub.PrivateKey != nil {
			keys = append(keys, sub.PrivateKey)
		}
	}

	for _, key := range keys {
		if !key.Encrypted {
			continue
		}
		if len(passphrase) == 0 {
			return errors.New("private key is passphrase protected and no passphrase was given")
		}
		if err := key.Decrypt(passphrase); err != nil {
			return errors.Wrap(err, "unable to decrypt private key")
		}
	}

	return nil
}

// Sign returns a binary detached signature over data.
func (s *pgpSigner) Sign(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := openpgp.DetachSign(&buf, s.entity, bytes.NewReader(data), s.config); err != nil {
		return nil, errors.Wrap(err, "signing package")
	}

	return buf.Bytes(), nil
}
