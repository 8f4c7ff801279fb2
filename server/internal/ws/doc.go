// Package ws implements the WebSocket hub behind GET /ws/stream.
//
// Hub keeps a set of connected clients and pushes the current question
// collection to all of them on a fixed interval and whenever Notify is
// called (the server calls it when the data file changes).
//
// Message format sent to clients:
//
//	{
//	  "event":        "questions",
//	  "data":         [ /* same schema as GET /questions */ ],
//	  "generated_at": "2026-01-02T15:04:05Z"
//	}
//
// A missing data file is sent as an empty data array. The upgrader accepts
// all origins; apply CORS restrictions at the reverse proxy.
package ws
