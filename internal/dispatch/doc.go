// Package dispatch implements a single-consumer event dispatch loop.
//
// Producers submit work items (a registered method name, or a direct
// callable, plus positional and keyword arguments) from any number of
// goroutines. Exactly one worker drains the queue in FIFO order, validates
// arguments against the target's declared signature, executes the call, and
// publishes the outcome to a thread-safe result store. Producers block on
// Get until their outcome is ready, and each outcome can be consumed exactly
// once.
//
// Per-task failures (unknown method, invalid arguments, execution errors,
// recovered panics) are contained: they become Failed outcomes and never
// terminate the loop.
package dispatch
