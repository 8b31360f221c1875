package relay

import (
	"context"
	"crypto/rsa"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/config"
	"github.com/HannahMarsh/onion-relay/internal/domain/interfaces"
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
	"github.com/HannahMarsh/onion-relay/internal/metrics"
	"github.com/HannahMarsh/onion-relay/internal/onion"
	"github.com/HannahMarsh/onion-relay/internal/onion/keys"
)

// HopResult is the outcome of forwarding one peeled envelope.
type HopResult struct {
	Destination models.Address
	Forwarded   bool
	Err         error // why the forward failed, nil when Forwarded
}

// State is what a relay remembers about the last envelope it handled. Nil fields mean nothing was received yet.
type State struct {
	LastEncrypted   *string
	LastDecrypted   *string
	LastDestination *models.Address
	LastHop         *HopResult
}

// Relay represents a participating relay in the network.
type Relay struct {
	ID         int            // Unique identifier for the relay.
	Address    models.Address // Address other components use to reach the relay.
	PublicKey  string         // Registered with the directory.
	privateKey *rsa.PrivateKey
	forwarder  interfaces.Forwarder
	mu         sync.RWMutex
	state      State
}

// NewRelay generates a key pair for relay id and registers its public key with the directory.
// If registration fails the relay is not returned, so it can never serve.
func NewRelay(ctx context.Context, id int, cfg *config.Config, directory interfaces.DirectoryClient, forwarder interfaces.Forwarder) (*Relay, error) {
	if id <= 0 {
		return nil, errors.Wrapf(models.ErrValidation, "relay id must be positive, got %d", id)
	}
	keyPair, err := keys.GenerateKeyPair()
	if err != nil {
		return nil, errors.Wrap(err, "relay.NewRelay(): failed to generate key pair")
	}
	publicKey, err := keyPair.PublicKeyString()
	if err != nil {
		return nil, errors.Wrap(err, "relay.NewRelay(): failed to export public key")
	}

	n := &Relay{
		ID:         id,
		Address:    cfg.RelayAddress(id),
		PublicKey:  publicKey,
		privateKey: keyPair.Private,
		forwarder:  forwarder,
	}

	slog.Info("Sending relay registration request.", "id", id)
	if err := directory.RegisterNode(ctx, models.NodeRecord{ID: id, PublicKey: publicKey}); err != nil {
		return nil, errors.Wrap(err, "relay.NewRelay(): failed to register with directory")
	}
	return n, nil
}

// HandleEnvelope peels one layer off raw and forwards the remainder to the destination it names.
//
// A returned error means nothing was learned from raw (it is too short, was sealed for another
// key, or was tampered with) and the state is unchanged. Once the layer is open, the body is
// forwarded exactly once and the state is replaced with this envelope and its HopResult; a
// forward failure is reported only through the HopResult.
func (n *Relay) HandleEnvelope(ctx context.Context, raw string) (HopResult, error) {
	if raw == "" {
		return HopResult{}, errors.Wrap(models.ErrValidation, "message is required")
	}
	timeReceived := time.Now()
	defer func() {
		metrics.Observe(metrics.PROCESSING_TIME, time.Since(timeReceived).Seconds())
	}()

	layer, err := onion.PeelLayer(raw, n.privateKey)
	if err != nil {
		if errors.Is(err, models.ErrDecryption) {
			metrics.Inc(metrics.ONION_COUNT, metrics.OutcomeDecryptFailed)
		} else {
			metrics.Inc(metrics.ONION_COUNT, metrics.OutcomeMalformedLayer)
		}
		return HopResult{}, errors.Wrapf(err, "relay %d failed to peel envelope", n.ID)
	}

	slog.Info("Received onion", "relay", n.ID, "nextHop", layer.Destination)

	hop := HopResult{Destination: layer.Destination, Forwarded: true}
	if err := n.forwarder.Forward(ctx, layer.Destination, layer.Body); err != nil {
		hop.Forwarded = false
		hop.Err = err
		slog.Error("Error forwarding onion", "relay", n.ID, "nextHop", layer.Destination, "err", err)
		metrics.Inc(metrics.ONION_COUNT, metrics.OutcomeForwardFailed)
	} else {
		metrics.Inc(metrics.ONION_COUNT, metrics.OutcomeForwarded)
	}

	// One write, so a snapshot never pairs this envelope with another one's hop result.
	n.mu.Lock()
	n.state = State{
		LastEncrypted:   &raw,
		LastDecrypted:   &layer.Body,
		LastDestination: &layer.Destination,
		LastHop:         &hop,
	}
	n.mu.Unlock()

	return hop, nil
}

// Receive adapts HandleEnvelope to interfaces.MessageHandler.
func (n *Relay) Receive(ctx context.Context, message string) error {
	_, err := n.HandleEnvelope(ctx, message)
	return err
}

// Snapshot returns a copy of the relay's state.
func (n *Relay) Snapshot() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}
