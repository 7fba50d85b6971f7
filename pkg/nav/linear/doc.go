// Package linear implements navigation units for a single linear screen
// stack.
//
// Neither unit keeps a stack of its own: the nav.StackContainer they drive
// owns the screen hierarchy and its back-stack markers. Navigation speaks in
// Forward, Replace and BackTo; Screens is the smaller variant with
// OpenScreen and OpenAsRoot.
package linear
