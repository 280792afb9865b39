package mextract

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// StartSignalHandler cancels running work on the usual termination
// signals. The returned func stops the handler.
func StartSignalHandler(closef func()) (endf func()) {
	sigc := make(chan os.Signal, 4)
	signal.Notify(sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigc:
			closef()
			panic(fmt.Errorf("Canceled"))
		case <-done:
		}
	}()
	return func() { close(done) }
}
