// Package debugger simulates stepping through one action of a manifest.
//
// Nothing is executed. The runtime walks the action line by line, stopping
// on step starts when stepping and on verified breakpoints always, and
// reports what a real run would have in scope at the current line:
// parameters from the launch inputs, credentials resolved from a
// credential set, and outputs of steps already passed.
//
// Requests like Step and Continue only queue work. Events are delivered to
// subscribers when the host calls Pump, or continuously from Serve, so a
// listener never observes an event from inside the call that caused it.
package debugger
