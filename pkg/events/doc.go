/*
Package events implements the fabric's two-channel event bus.

A Broker[T] is a non-blocking, fan-out, best-effort pub/sub primitive:
publishing never blocks the caller, every subscriber present at
publish time gets the event unless its buffer is full, and a
subscriber that falls behind is told how many events it missed rather
than silently losing them. There is no replay: a subscriber only sees
events published after it subscribed.

The FabricManager owns exactly two brokers, both built from this same
generic type: one carrying InternalEvent values for in-process
listeners (tests, future collaborators), and one carrying
the externalized WireEvent projection for downstream consumers such as
a UI bridge. Project converts the former into the latter; the
conversion is total and pure, so every internal event has exactly one
wire representation.
*/
package events
