package keys

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

func TestKeyGen(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error: %v", err)
	}
	if kp.Private.N.BitLen() != ModulusBits {
		t.Fatalf("expected %d bit modulus, got %d", ModulusBits, kp.Private.N.BitLen())
	}
	pub, err := kp.PublicKeyString()
	if err != nil || pub == "" {
		t.Fatalf("PublicKeyString() returned %q, %v", pub, err)
	}
}

func TestExportImport(t *testing.T) {
	require := require.New(t)
	kp, err := GenerateKeyPair()
	require.NoError(err)

	pubStr, err := ExportPublicKey(kp.Public)
	require.NoError(err)
	pub, err := ImportPublicKey(pubStr)
	require.NoError(err)
	require.True(pub.Equal(kp.Public))

	privStr, err := ExportPrivateKey(kp.Private)
	require.NoError(err)
	priv, err := ImportPrivateKey(privStr)
	require.NoError(err)
	require.True(priv.Equal(kp.Private))

	_, err = ImportPublicKey("not a key")
	require.ErrorIs(err, models.ErrValidation)
	_, err = ImportPublicKey(Encode([]byte("not DER")))
	require.ErrorIs(err, models.ErrValidation)
}

func TestAsymmetricRoundTrip(t *testing.T) {
	require := require.New(t)
	kp, err := GenerateKeyPair()
	require.NoError(err)
	pub, err := kp.PublicKeyString()
	require.NoError(err)

	symKey, err := GenerateSymmetricKey()
	require.NoError(err)

	ct, err := EncryptAsymmetric(symKey, pub)
	require.NoError(err)
	require.Len(ct, EncryptedKeyWidth)
	require.Equal(344, EncryptedKeyWidth)

	pt, err := DecryptAsymmetric(ct, kp.Private)
	require.NoError(err)
	require.Equal(symKey, pt)

	// OAEP is randomized: the same key encrypts differently every time, always at the same width
	ct2, err := EncryptAsymmetric(symKey, pub)
	require.NoError(err)
	require.NotEqual(ct, ct2)
	require.Len(ct2, EncryptedKeyWidth)
}

func TestAsymmetricWrongKey(t *testing.T) {
	alice, err := GenerateKeyPair()
	require.NoError(t, err)
	bob, err := GenerateKeyPair()
	require.NoError(t, err)
	pub, err := alice.PublicKeyString()
	require.NoError(t, err)

	ct, err := EncryptAsymmetric([]byte("symmetric key"), pub)
	require.NoError(t, err)

	_, err = DecryptAsymmetric(ct, bob.Private)
	require.ErrorIs(t, err, models.ErrDecryption)

	_, err = DecryptAsymmetric("%%%", alice.Private)
	require.ErrorIs(t, err, models.ErrDecryption)
}

func TestSymmetricRoundTrip(t *testing.T) {
	require := require.New(t)
	key, err := GenerateSymmetricKey()
	require.NoError(err)
	require.Len(key, SymmetricKeySize)

	for _, plaintext := range [][]byte{{}, []byte("hello"), bytes.Repeat([]byte{0, 1, 2, 0xff}, 1000)} {
		ct, err := EncryptSymmetric(key, plaintext)
		require.NoError(err)

		raw, err := Decode(ct)
		require.NoError(err)
		require.Len(raw, IVSize+len(plaintext)+TagSize)

		pt, err := DecryptSymmetric(key, ct)
		require.NoError(err)
		require.True(bytes.Equal(plaintext, pt))
	}
}

func TestSymmetricFreshIV(t *testing.T) {
	key, err := GenerateSymmetricKey()
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ct, err := EncryptSymmetric(key, []byte("same plaintext"))
		require.NoError(t, err)
		raw, err := Decode(ct)
		require.NoError(t, err)
		iv := string(raw[:IVSize])
		require.False(t, seen[iv], "IV reused")
		seen[iv] = true
	}
}

func TestSymmetricTamperDetection(t *testing.T) {
	key, err := GenerateSymmetricKey()
	require.NoError(t, err)
	ct, err := EncryptSymmetric(key, []byte("0000003007hello"))
	require.NoError(t, err)
	raw, err := Decode(ct)
	require.NoError(t, err)

	for i := range raw {
		tampered := bytes.Clone(raw)
		tampered[i] ^= 0x01
		_, err := DecryptSymmetric(key, Encode(tampered))
		require.ErrorIs(t, err, models.ErrDecryption, "flipped byte %d was not detected", i)
	}

	// character level tampering either breaks the encoding or the tag
	for i := range ct {
		if ct[i] == '=' {
			continue
		}
		replacement := byte('A')
		if ct[i] == 'A' {
			replacement = 'B'
		}
		tampered := ct[:i] + string(replacement) + ct[i+1:]
		_, err := DecryptSymmetric(key, tampered)
		require.ErrorIs(t, err, models.ErrDecryption, "changed character %d was not detected", i)
	}

	_, err = DecryptSymmetric(key, Encode(raw[:IVSize]))
	require.ErrorIs(t, err, models.ErrDecryption)

	other, err := GenerateSymmetricKey()
	require.NoError(t, err)
	_, err = DecryptSymmetric(other, ct)
	require.ErrorIs(t, err, models.ErrDecryption)
}

func TestEncodeRoundTrip(t *testing.T) {
	data := []byte{0, 1, 2, 250, 251, 255}
	decoded, err := Decode(Encode(data))
	require.NoError(t, err)
	require.Equal(t, data, decoded)

	_, err = Decode(strings.Repeat("*", 8))
	require.ErrorIs(t, err, models.ErrValidation)
}
