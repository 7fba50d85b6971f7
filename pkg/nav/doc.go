// Package nav implements composable back-stack navigation for screen-stack
// user interfaces.
//
// A Navigator owns a fixed, ordered list of navigation units. Each unit
// manages one zone of the interface (a linear stack, a set of tabs) and
// decides for itself whether it recognises a Command. The Navigator offers
// every command to its units in order; the first unit that accepts it wins.
// The universal Back command takes a separate path: it cascades through the
// units' back handlers and, when none of them consumes it, finishes the Host.
//
// Component architecture:
//
//	screen.go    screens, factories, containers and the host capability
//	command.go   the Back command and the events owned by this package
//	emitter.go   synchronous event delivery with disposable subscriptions
//	unit.go      the Unit contract and persisted State
//	navigator.go the dispatcher: command routing and the back cascade
//	router.go    rebindable front door with batching, logging and tracing
//
// Everything here runs on a single logical thread. Events are delivered
// inline by the call that produced them, so a command's events have all been
// observed by the time Navigate returns. Nothing in this package locks.
package nav
