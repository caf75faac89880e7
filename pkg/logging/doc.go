// Package logging configures zerolog for modorg: a console writer on stderr
// plus an append-only log file in the XDG state directory.
package logging
