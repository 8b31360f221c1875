package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"

	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

const (
	// ModulusBits is the RSA modulus size of every relay key.
	ModulusBits = 2048

	// EncryptedKeyWidth is the encoded length of one RSA-OAEP ciphertext: base64 of ModulusBits/8 bytes.
	EncryptedKeyWidth = (ModulusBits/8 + 2) / 3 * 4
)

// KeyPair is a relay's RSA key pair. The private half never leaves the process that generated it.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// GenerateKeyPair generates a 2048-bit RSA key pair.
func GenerateKeyPair() (*KeyPair, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, ModulusBits)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate private key")
	}
	return &KeyPair{Private: privateKey, Public: &privateKey.PublicKey}, nil
}

// PublicKeyString exports the public key in the form the directory stores.
func (kp *KeyPair) PublicKeyString() (string, error) {
	return ExportPublicKey(kp.Public)
}

// ExportPublicKey encodes a public key as base64 SPKI DER.
func ExportPublicKey(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal public key")
	}
	return Encode(der), nil
}

// ExportPrivateKey encodes a private key as base64 PKCS#8 DER.
func ExportPrivateKey(priv *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal private key")
	}
	return Encode(der), nil
}

func ImportPublicKey(s string) (*rsa.PublicKey, error) {
	der, err := Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode public key")
	}
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, errors.Wrapf(models.ErrValidation, "failed to parse public key: %v", err)
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.Wrap(models.ErrValidation, "public key is not RSA")
	}
	if pub.N.BitLen() != ModulusBits {
		return nil, errors.Wrapf(models.ErrValidation, "public key is %d bits, want %d", pub.N.BitLen(), ModulusBits)
	}
	return pub, nil
}

func ImportPrivateKey(s string) (*rsa.PrivateKey, error) {
	der, err := Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode private key")
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, errors.Wrapf(models.ErrValidation, "failed to parse private key: %v", err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.Wrap(models.ErrValidation, "private key is not RSA")
	}
	return priv, nil
}

// EncryptAsymmetric encrypts a short payload (a symmetric key) with RSA-OAEP/SHA-256.
// The result is always EncryptedKeyWidth characters long.
func EncryptAsymmetric(plaintext []byte, publicKey string) (string, error) {
	pub, err := ImportPublicKey(publicKey)
	if err != nil {
		return "", err
	}
	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to encrypt with RSA-OAEP")
	}
	return Encode(ciphertext), nil
}

// DecryptAsymmetric reverses EncryptAsymmetric. Any failure, including a wrong key, is an ErrDecryption.
func DecryptAsymmetric(ciphertext string, priv *rsa.PrivateKey) ([]byte, error) {
	raw, err := Decode(ciphertext)
	if err != nil {
		return nil, errors.Wrap(models.ErrDecryption, err.Error())
	}
	plaintext, err := rsa.DecryptOAEP(sha256.New(), nil, priv, raw, nil)
	if err != nil {
		return nil, errors.Wrapf(models.ErrDecryption, "RSA-OAEP: %v", err)
	}
	return plaintext, nil
}
