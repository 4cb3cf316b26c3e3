package receiptqueue

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/adlcare/paygate/internal/pkg/env"
)

// Manager manages the global receipt delivery queue
type Manager struct {
	queue   *Queue
	mu      sync.Mutex
	running bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global receipt queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := env.GetEnvInt("RECEIPT_WORKERS", 3)
		globalManager = &Manager{
			queue: NewQueue(workerCount),
		}
	})
	return globalManager
}

// GetQueue returns the managed queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the queue workers
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	m.running = true

	log.Info("[ReceiptQueue Manager] Starting receipt delivery workers")
	m.queue.Start()
}

// Stop stops the queue workers
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false

	log.Info("[ReceiptQueue Manager] Stopping receipt delivery workers")
	m.queue.Stop()
}
