package stopwatch

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultTickInterval = time.Second

type State struct {
	Running bool   `json:"running"`
	Seconds int    `json:"seconds"`
	Display string `json:"display"`
}

// Stopwatch counts the seconds of a workout session. It is independent from
// scoring: nothing in the tracker reads it.
type Stopwatch struct {
	mu       sync.Mutex
	interval time.Duration
	running  bool
	seconds  int
	stop     chan struct{}
	done     chan struct{}
}

// New creates a paused stopwatch that ticks every interval while running,
// interval <= 0 means DefaultTickInterval.
func New(interval time.Duration) *Stopwatch {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Stopwatch{
		interval: interval,
	}
}

// Start is a no-op when already running.
func (s *Stopwatch) Start() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.running = true
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.run(time.NewTicker(s.interval), s.stop, s.done)
		log.Debugf("stopwatch started at %s", Format(s.seconds))
	}

	return s.stateLocked()
}

// Pause keeps the elapsed time, it is a no-op when already paused.
func (s *Stopwatch) Pause() State {
	s.mu.Lock()
	done := s.haltLocked()
	state := s.stateLocked()
	s.mu.Unlock()

	<-done
	return state
}

// Toggle pauses a running stopwatch and starts a paused one.
func (s *Stopwatch) Toggle() State {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if running {
		return s.Pause()
	}
	return s.Start()
}

// Reset stops the stopwatch and sets it back to zero.
func (s *Stopwatch) Reset() State {
	s.mu.Lock()
	done := s.haltLocked()
	s.seconds = 0
	state := s.stateLocked()
	s.mu.Unlock()

	<-done
	log.Debug("stopwatch reset")
	return state
}

func (s *Stopwatch) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Close stops the ticking goroutine, if any.
func (s *Stopwatch) Close() {
	s.Pause()
}

// haltLocked stops the ticking goroutine and returns a channel closed once it exited.
// Ticks racing with the halt see the closed stop channel and are dropped.
func (s *Stopwatch) haltLocked() <-chan struct{} {
	if !s.running {
		closed := make(chan struct{})
		close(closed)
		return closed
	}

	s.running = false
	close(s.stop)
	return s.done
}

func (s *Stopwatch) stateLocked() State {
	return State{
		Running: s.running,
		Seconds: s.seconds,
		Display: Format(s.seconds),
	}
}

func (s *Stopwatch) run(ticker *time.Ticker, stop, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			select {
			case <-stop:
				s.mu.Unlock()
				return
			default:
			}
			s.seconds++
			s.mu.Unlock()
		}
	}
}

// Format renders seconds as MM:SS, minutes keep growing past 59.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
