//go:build !debug

// Package consts holds build-wide flags.
package consts

// Mode_Debug gates assertions and other debug-only checks. Release
// builds compile it to a false constant so assert calls drop out
// entirely; building with the debug tag flips it on.
const Mode_Debug = false
