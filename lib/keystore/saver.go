package keystore

import (
	"log/slog"
	"time"
)

// --------------------------------------------------------------------------
// Maintenance Worker
// --------------------------------------------------------------------------

// saver is the background maintenance worker of a Client. It sleeps for the
// configured interval, then runs one prune+save cycle, in that order, so
// that expired entries never reach disk. Errors are logged and the loop
// continues; a failed save is retried implicitly on the next cycle.
type saver struct {
	client   *Client
	logger   *slog.Logger
	interval time.Duration
	stopc    chan struct{}
	donec    chan struct{}
}

// newSaver starts the worker goroutine.
func newSaver(c *Client, interval time.Duration) *saver {
	s := &saver{
		client:   c,
		logger:   c.logger,
		interval: interval,
		stopc:    make(chan struct{}),
		donec:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *saver) run() {
	defer close(s.donec)

	s.logger.Debug("maintenance worker started", "interval", s.interval)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-s.stopc:
			return
		case <-timer.C:
		}

		// a stop racing the tick wins: no final cycle runs during shutdown
		select {
		case <-s.stopc:
			return
		default:
		}

		if err := s.client.Prune(); err != nil {
			s.logger.Error("background prune failed", "error", err)
		}
		if err := s.client.Save(); err != nil {
			s.logger.Error("background save failed", "error", err)
		}

		timer.Reset(s.interval)
	}
}

// shutdown signals the worker and blocks until its goroutine has exited. A
// cycle already past the stop check completes before shutdown returns.
func (s *saver) shutdown() {
	close(s.stopc)
	<-s.donec
	s.logger.Debug("maintenance worker stopped")
}
