// Package types defines the Go types shared by the server, the client and
// responderctl. They are also the on-disk representation: the data file is a
// JSON array of Question values.
package types
