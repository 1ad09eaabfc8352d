// Package channel implements a fixed-capacity FIFO queue shared between
// goroutines, with blocking Put and Take built on a monitor (one mutex, two
// condition variables). Blocked calls can be unparked cooperatively through a
// cancel.Signal. Closing moves the channel to a draining phase: producers are
// rejected immediately while consumers may still remove the buffered items
// before observing end-of-channel.
package channel
