/*
Package rc is the process-wide entry point to refkit: one default reference
graph shared by the whole program.

# Quick Start

	rc.Init()
	defer rc.Cleanup()

	buf, err := rc.Alloc(nil, 128, nil)
	if err != nil {
	    log.Fatal(err)
	}
	copy(buf.Bytes(), "payload")

	w := rc.Downgrade(buf)        // give up the strong hold
	if s, err := rc.Upgrade(w); err == nil {
	    // still alive, s is a fresh strong hold
	}

# Dependencies

An allocation can be tied to another one:

	parent, _ := rc.Alloc(nil, 64, nil)
	child, _ := rc.Alloc(nil, 32, parent)

child starts with parent's count, and every downgrade of parent decrements
child first. Once parent's count reaches zero, both are gone.

# Lifecycle

Alloc creates the default graph on first use; Init does the same explicitly
and is a no-op while the graph is live. Cleanup releases every allocation
and leaves the graph uninitialized until the next Init or Alloc. Entry ids
continue across Cleanup.

Programs that want more than one graph, or no global state, use the graph
package directly.

# Thread Safety

The default graph has no locking. Calls must be serialized by the caller.
*/
package rc
