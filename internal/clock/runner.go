package clock

import "time"

// runner drives a callback once per interval on its own goroutine until halted
// or until the callback returns false.
type runner struct {
	stop chan struct{}
	done chan struct{}
}

func startRunner(interval time.Duration, fn func() bool) *runner {
	r := &runner{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				if !fn() {
					return
				}
			}
		}
	}()
	return r
}

// halt stops the goroutine and waits for it to exit. Must not be called
// while holding a lock the callback takes.
func (r *runner) halt() {
	if r == nil {
		return
	}
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
	<-r.done
}
