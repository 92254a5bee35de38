package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/ludo-technologies/kuma/internal/constants"
)

// aborter is the part of the dispatcher the interrupt handler drives
type aborter interface {
	Abort() bool
}

// trapInterrupt listens for SIGINT while a run is in progress. The first
// interrupt asks target to abort; any later one exits the process at once.
// The returned function unregisters the handler and waits for the listener.
func (c *CLI) trapInterrupt(target aborter) (stop func()) {
	sigs := make(chan os.Signal, 2)
	done := make(chan struct{})
	c.notify(sigs, os.Interrupt)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			case <-sigs:
				if !target.Abort() {
					c.exit(constants.ExitFailure)
					continue
				}
				fmt.Fprintln(c.stderr)
				fmt.Fprintln(c.stderr, "Exiting... Interrupt again to exit immediately.")
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.stopNotify(sigs)
			close(done)
			wg.Wait()
		})
	}
}
