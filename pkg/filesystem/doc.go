// Package filesystem provides the afero filesystems modorg works against.
//
// Production code uses NewOS, usually rooted at the game directory with
// NewRooted so that every mod path is interpreted relative to it. Tests use
// NewMemory.
package filesystem
