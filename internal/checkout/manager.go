package checkout

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/pos-checkout/internal/gateway"
	"github.com/jafarshop/pos-checkout/pkg/errors"
)

// Manager owns the single live checkout of one terminal. A new checkout may
// not start until the previous session reaches a terminal phase; the old
// session is discarded when the next one begins.
type Manager struct {
	orders   OrderService
	payments PaymentService
	currency string
	logger   *zap.Logger

	mu      sync.Mutex
	session *Session
	bridge  *gateway.ResultBridge
}

// NewManager creates a new checkout manager
func NewManager(orders OrderService, paySvc PaymentService, currency string, logger *zap.Logger) *Manager {
	return &Manager{
		orders:   orders,
		payments: paySvc,
		currency: currency,
		logger:   logger,
	}
}

// Begin starts a fresh session with its own gateway bridge. It fails with a
// busy error while the previous checkout is still in flight.
func (m *Manager) Begin() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		phase := m.session.Phase()
		// An idle session holds no in-flight work: either its submission
		// never started or it failed before the order existed, and retry is
		// always a fresh submission. Only a session between SUBMITTING and a
		// terminal phase blocks the terminal.
		if phase != PhaseIdle && !phase.IsTerminal() {
			return nil, &errors.ErrBusy{Phase: string(phase)}
		}
	}

	bridge := gateway.NewResultBridge(m.logger)
	session := NewSession(m.orders, m.payments, bridge, m.currency, m.logger)

	m.session = session
	m.bridge = bridge

	m.logger.Info("Checkout session started", zap.String("session_id", session.ID().String()))
	return session, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || m.session.ID() != id {
		return nil, &errors.ErrNotFound{Resource: "checkout session", ID: id.String()}
	}
	return m.session, nil
}

// BridgeFor returns the gateway result bridge of the session with the given
// id, for the HTTP surface to resolve handshakes and report validation.
func (m *Manager) BridgeFor(id uuid.UUID) (*gateway.ResultBridge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || m.session.ID() != id {
		return nil, &errors.ErrNotFound{Resource: "checkout session", ID: id.String()}
	}
	return m.bridge, nil
}
