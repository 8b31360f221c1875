package user

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/config"
	"github.com/HannahMarsh/onion-relay/internal/domain/interfaces"
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
	"github.com/HannahMarsh/onion-relay/internal/metrics"
	"github.com/HannahMarsh/onion-relay/internal/onion"
	"github.com/HannahMarsh/onion-relay/pkg/utils"
)

// SendResult describes a message that reached its entry relay.
type SendResult struct {
	Message models.Message
	Circuit models.Circuit // entry first
}

func (s SendResult) Entry() models.NodeRecord {
	return s.Circuit[0]
}

// State is what a user remembers. Nil fields mean nothing happened yet.
type State struct {
	LastReceived *string
	LastSent     *string
	LastCircuit  []int
}

// User both originates messages (wrapping them for a circuit) and receives delivered plaintext.
type User struct {
	ID        int
	Address   models.Address
	cfg       *config.Config
	directory interfaces.DirectoryClient
	forwarder interfaces.Forwarder
	selector  *onion.Selector
	mu        sync.RWMutex
	state     State
}

// NewUser creates user id. A nil selector draws circuits from a time-seeded source.
func NewUser(id int, cfg *config.Config, directory interfaces.DirectoryClient, forwarder interfaces.Forwarder, selector *onion.Selector) *User {
	if selector == nil {
		selector = onion.NewRandomSelector()
	}
	return &User{
		ID:        id,
		Address:   cfg.UserAddress(id),
		cfg:       cfg,
		directory: directory,
		forwarder: forwarder,
		selector:  selector,
	}
}

// SendMessage picks a circuit from the directory, wraps message for destinationUserID and posts it to the entry relay.
//
// Nothing is dispatched when the directory cannot supply three distinct relays. The returned error
// only covers the first hop: a nil error means the entry relay accepted the envelope.
func (c *User) SendMessage(ctx context.Context, message string, destinationUserID int) (SendResult, error) {
	if message == "" {
		return SendResult{}, errors.Wrap(models.ErrValidation, "message is required")
	}
	if destinationUserID < 0 {
		return SendResult{}, errors.Wrapf(models.ErrValidation, "destinationUserId must not be negative, got %d", destinationUserID)
	}
	if _, err := c.cfg.URLFor(c.cfg.UserAddress(destinationUserID)); err != nil {
		return SendResult{}, errors.Wrapf(err, "destinationUserId %d has no usable port", destinationUserID)
	}

	nodes, err := c.directory.ListNodes(ctx)
	if err != nil {
		return SendResult{}, errors.Wrap(err, "failed to fetch relays")
	}
	circuit, err := c.selector.BuildCircuit(nodes)
	if err != nil {
		return SendResult{}, err
	}

	msg := models.NewMessage(message, destinationUserID)
	o, err := onion.WrapMessage(msg.Content, destinationUserID, circuit, c.cfg)
	if err != nil {
		return SendResult{}, errors.Wrapf(err, "failed to wrap message %s", msg.ID)
	}

	c.mu.Lock()
	c.state.LastSent = &msg.Content
	c.state.LastCircuit = o.Path.IDs()
	c.mu.Unlock()

	entry := o.Entry()
	slog.Info("Sending onion", "user", c.ID, "messageId", msg.ID, "entry", entry.ID, "circuit", o.Path.IDs())
	if err := c.forwarder.Forward(ctx, c.cfg.RelayAddress(entry.ID), o.Envelope); err != nil {
		return SendResult{}, errors.Wrapf(models.ErrUnreachable, "entry relay %d rejected message %s: %v", entry.ID, msg.ID, err)
	}
	metrics.Inc(metrics.MSG_SENT)

	return SendResult{Message: msg, Circuit: o.Path}, nil
}

// ReceiveMessage stores a delivered plaintext. Empty messages are rejected.
func (c *User) ReceiveMessage(_ context.Context, message string) error {
	if message == "" {
		return errors.Wrap(models.ErrValidation, "message is required")
	}
	c.mu.Lock()
	c.state.LastReceived = &message
	c.mu.Unlock()

	slog.Info("Received message", "user", c.ID, "length", len(message))
	metrics.Inc(metrics.MSG_RECEIVED)
	return nil
}

// Snapshot returns a copy of the user's state.
func (c *User) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	s.LastCircuit = utils.Copy(s.LastCircuit)
	return s
}
