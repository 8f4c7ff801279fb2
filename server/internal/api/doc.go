// Package api implements the HTTP REST API for responder-server.
//
// New(repo) returns an http.Handler that serves:
//
//	GET  /                                           welcome message
//	GET  /questions                                  all questions; 404 when there is no data file
//	POST /questions                                  create a question; 400 if invalid, 409 on duplicate summary
//	GET  /questions/{questionId}                     single question; 404 if unknown
//	GET  /questions/{questionId}/answers             answers of a question; 404 if unknown
//	POST /questions/{questionId}/answers             create an answer; 400 if invalid or rejected, 404 with no data file
//	GET  /questions/{questionId}/answers/{answerId}  single answer; 404 if unknown
//
// Any other path answers 404 {"error":"not found"}.
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for unsupported methods
//   - Return 500 when the data file cannot be read, parsed or written
//
// POST bodies are JSON or application/x-www-form-urlencoded. Identifiers are
// generated by the handler (uuid v4) before validation. No external HTTP
// framework is used.
package api
