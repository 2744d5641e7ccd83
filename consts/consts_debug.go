//go:build debug

package consts

// Mode_Debug gates assertions and other debug-only checks; the debug
// build tag enables them.
const Mode_Debug = true
