// Package client is a Go client for the responder REST API.
//
// Its methods mirror the store operations and map response statuses back
// onto the store's sentinel errors, so callers can treat a remote server
// and a local data file the same way:
//
//	404 on a read        ErrNoData / ErrNotFound
//	400 on POST answers  ErrRejected (empty body)
//	409 on POST question ErrRejected
//	400 with a message   ErrInvalid
package client
