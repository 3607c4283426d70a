package connectivity

// Signal is a platform reachability source: a synchronously readable
// current state plus subscribable "became reachable" / "became
// unreachable" transition events.
type Signal interface {
	// Online reports the current reachability. ok is false when the
	// source cannot be read, in which case consumers assume online.
	Online() (online bool, ok bool)

	// Subscribe registers transition callbacks and returns a function
	// that removes them. Callbacks are invoked from the source's own
	// goroutine; they must not block.
	Subscribe(onUp, onDown func()) (unsubscribe func())
}
