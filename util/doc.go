// Package util holds small helpers shared by the server and the CLI: size
// strings such as "25MB", secret masking for display, and sanitizing of
// client-supplied file names.
package util
