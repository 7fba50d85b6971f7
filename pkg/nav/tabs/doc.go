// Package tabs implements a tabbed navigation unit.
//
// The unit reconciles three pieces of state on every operation: the current
// tab, the screen its container is showing, and a BackStack shared by all
// tabs. The back stack is a single interleaved arena; each entry remembers
// the tab it belongs to and per-tab views are filtered at read time. The
// screen on display never has an entry of its own.
//
// Only the back stack is persisted. The current tab and screen belong to the
// host, which recreates them through its own lifecycle.
package tabs
