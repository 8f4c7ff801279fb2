// Package health serves the standard grpc.health.v1 service for the
// responder server.
//
// A Checker probes the data file on an interval and publishes the result as
// the serving status of ServiceName and of the overall server (""):
//
//	probe ok     SERVING
//	probe error  NOT_SERVING
//
// A missing data file is healthy: the first write creates it.
// NewServer returns a *grpc.Server with the health service registered and a
// logging interceptor installed on every unary call.
package health
