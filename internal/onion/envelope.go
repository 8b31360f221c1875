package onion

import (
	"crypto/rsa"

	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
	"github.com/HannahMarsh/onion-relay/internal/onion/keys"
)

// KeyFieldWidth is the constant split point of every envelope: the encrypted symmetric key
// occupies the first KeyFieldWidth characters, the symmetric ciphertext the rest.
const KeyFieldWidth = keys.EncryptedKeyWidth

// Addressing maps node and user ids onto their relay-facing addresses.
type Addressing interface {
	RelayAddress(id int) models.Address
	UserAddress(id int) models.Address
}

// Onion is a fully wrapped message ready for the entry relay.
type Onion struct {
	Envelope string
	// Path is the circuit in delivery order: Path[0] is the entry relay.
	Path models.Circuit
}

// Entry returns the relay the envelope must be sent to.
func (o Onion) Entry() models.NodeRecord {
	return o.Path[0]
}

// Layer is what a relay learns from peeling one envelope.
type Layer struct {
	Destination models.Address
	Body        string
}

// WrapMessage wraps plaintext for delivery to destinationUserID over circuit.
//
// Layers are built from the destination outward: circuit[0] gets the innermost layer
// (it delivers to the user) and the last element of circuit gets the outermost one, so the
// returned Path is circuit reversed.
func WrapMessage(plaintext string, destinationUserID int, circuit models.Circuit, addressing Addressing) (Onion, error) {
	if err := checkCircuit(circuit); err != nil {
		return Onion{}, err
	}

	address := addressing.UserAddress(destinationUserID)
	payload := plaintext

	for _, node := range circuit {
		layer, err := sealLayer(address, payload, node.PublicKey)
		if err != nil {
			return Onion{}, errors.Wrapf(err, "failed to build layer for node %d", node.ID)
		}
		payload = layer
		address = addressing.RelayAddress(node.ID)
	}

	return Onion{Envelope: payload, Path: circuit.Reversed()}, nil
}

func sealLayer(destination models.Address, payload string, publicKey string) (string, error) {
	// The peeling relay splits at AddressWidth, so a wider address would corrupt the body.
	if _, err := models.ParseAddress(string(destination)); err != nil {
		return "", err
	}
	symKey, err := keys.GenerateSymmetricKey()
	if err != nil {
		return "", err
	}
	cipherText, err := keys.EncryptSymmetric(symKey, []byte(string(destination)+payload))
	if err != nil {
		return "", err
	}
	encryptedKey, err := keys.EncryptAsymmetric(symKey, publicKey)
	if err != nil {
		return "", err
	}
	return encryptedKey + cipherText, nil
}

// PeelLayer removes exactly one layer from raw with the relay's private key.
func PeelLayer(raw string, privateKey *rsa.PrivateKey) (Layer, error) {
	if len(raw) <= KeyFieldWidth {
		return Layer{}, errors.Wrapf(models.ErrDecryption, "envelope is %d characters, key field alone is %d", len(raw), KeyFieldWidth)
	}
	symKey, err := keys.DecryptAsymmetric(raw[:KeyFieldWidth], privateKey)
	if err != nil {
		return Layer{}, errors.Wrap(err, "failed to recover layer key")
	}
	inner, err := keys.DecryptSymmetric(symKey, raw[KeyFieldWidth:])
	if err != nil {
		return Layer{}, errors.Wrap(err, "failed to open layer")
	}
	if len(inner) < models.AddressWidth {
		return Layer{}, errors.Wrapf(models.ErrValidation, "layer is %d bytes, shorter than the address field", len(inner))
	}
	destination, err := models.ParseAddress(string(inner[:models.AddressWidth]))
	if err != nil {
		return Layer{}, err
	}
	return Layer{Destination: destination, Body: string(inner[models.AddressWidth:])}, nil
}

func checkCircuit(circuit models.Circuit) error {
	if len(circuit) != models.CircuitLength {
		return errors.Wrapf(models.ErrValidation, "circuit has %d nodes, want %d", len(circuit), models.CircuitLength)
	}
	seen := make(map[int]bool, len(circuit))
	for _, n := range circuit {
		if seen[n.ID] {
			return errors.Wrapf(models.ErrValidation, "node %d appears twice in circuit", n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}
