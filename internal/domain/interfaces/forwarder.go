package interfaces

import (
	"context"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

// MessageHandler consumes the message field of a POST /message request.
type MessageHandler func(ctx context.Context, message string) error

// Forwarder delivers a message to the component listening at an address.
// A nil error means the receiving component accepted the request; nothing is known about later hops.
type Forwarder interface {
	Forward(ctx context.Context, to models.Address, message string) error
}
