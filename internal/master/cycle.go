package master

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// CycleRunner drives Master.Cycle at a fixed period. It is the only cycle
// owner: the channel managers rely on the exchange being serialized here.
type CycleRunner struct {
	master   *Master
	period   time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

func NewCycleRunner(master *Master, period time.Duration, logger *zap.Logger) *CycleRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CycleRunner{
		master:   master,
		period:   period,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the cyclic exchange loop.
func (r *CycleRunner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	r.running = true
	r.wg.Add(1)

	go r.cycleLoop()

	r.logger.Info("Cycle runner started", zap.Duration("period", r.period))

	return nil
}

// Stop terminates the loop and waits for the current cycle to finish.
func (r *CycleRunner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	close(r.stopChan)
	r.wg.Wait()

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	r.logger.Info("Cycle runner stopped")
}

func (r *CycleRunner) cycleLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			if err := r.master.Cycle(); err != nil {
				r.logger.Error("Cycle failed", zap.Error(err))
			}
		}
	}
}

// IsRunning reports whether the loop is active.
func (r *CycleRunner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
