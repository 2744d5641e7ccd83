package atlas

import "fmt"

// BadMagicError is returned by Decode when the leading magic bytes
// don't match the atlas file format.
type BadMagicError struct {
	Got [4]byte
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("atlas: bad magic bytes % X", e.Got)
}

// UnsupportedVersionError is returned by Decode when the file's
// version byte is not one this package knows how to read.
type UnsupportedVersionError struct {
	Got byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("atlas: unsupported version %d", e.Got)
}

// TruncatedError is returned by Decode when the input ends before a
// declared-length field or the full header can be read.
type TruncatedError struct {
	Wanted int
	Got    int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("atlas: truncated input, wanted %d bytes, got %d", e.Wanted, e.Got)
}

// InflateFailedError wraps a zlib decompression failure on the pixel
// payload.
type InflateFailedError struct {
	Cause error
}

func (e *InflateFailedError) Error() string {
	return fmt.Sprintf("atlas: inflate failed: %v", e.Cause)
}

func (e *InflateFailedError) Unwrap() error {
	return e.Cause
}

// SizeMismatchError is returned by Decode when the inflated pixel
// payload does not match the declared width*height*4*layers size.
type SizeMismatchError struct {
	Wanted int
	Got    int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("atlas: decompressed size mismatch, wanted %d bytes, got %d", e.Wanted, e.Got)
}

// AtlasCapacityExceededError is returned by the builder when more than
// glyphid.MaxBase+1 base glyphs are requested for a single atlas.
type AtlasCapacityExceededError struct {
	Requested int
	Capacity  int
}

func (e *AtlasCapacityExceededError) Error() string {
	return fmt.Sprintf("atlas: capacity exceeded, requested %d base glyphs, capacity is %d", e.Requested, e.Capacity)
}
