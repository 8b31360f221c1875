package transport

import (
	"context"

	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/internal/domain/interfaces"
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
	"github.com/HannahMarsh/onion-relay/pkg/cm"
)

// Loopback is an in-process network: components attach a handler to their address and
// Forward calls it directly. It lets several relays and users run inside one test binary.
type Loopback struct {
	handlers cm.ConcurrentMap[models.Address, interfaces.MessageHandler]
}

func NewLoopback() *Loopback {
	return &Loopback{}
}

// Attach makes handler reachable at address, replacing any previous handler.
func (l *Loopback) Attach(address models.Address, handler interfaces.MessageHandler) {
	l.handlers.Set(address, handler)
}

func (l *Loopback) Detach(address models.Address) {
	l.handlers.Delete(address)
}

func (l *Loopback) Forward(ctx context.Context, to models.Address, message string) error {
	handler, ok := l.handlers.Get(to)
	if !ok {
		return errors.Wrapf(models.ErrNotFound, "nothing listens at %s", to)
	}
	return handler(ctx, message)
}

var _ interfaces.Forwarder = (*Loopback)(nil)
