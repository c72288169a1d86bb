package core

// Frame is an encoded outbound message, shared read-only across recipients.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues without blocking. It fails when the peer is closed
	// or its outbound queue is full.
	TrySend(Frame) error
	Close()
}
