// Package manycore models the architecture descriptions meshview renders.
//
// # Overview
//
// A [System] is a rows x columns mesh of cores. Each [Core] owns a [Router]
// and up to four outgoing [Channel]s, one per [Direction]. Cores and routers
// carry free-form string attributes which the information overlay can
// display; configuration keys address them with a leading '@' (the
// description key "temperature" is configured as "@temperature").
//
// Border cores may be attached to sinks and sources ([BorderEntry]).
//
// # Routing
//
// Routing algorithms themselves are out of scope. A description carries
// precomputed tables, one per algorithm name, and [System.Route] applies the
// requested table: the table is checked first, then channel loads are reset
// and re-accumulated, and the
// returned [RoutingResult] lists the loaded links per [RoutingTarget]:
//
//	result, err := sys.Route("RowFirst")
//	if err != nil {
//	    return err // errors.ErrCodeRouting
//	}
//	loaded := result.LoadsFor(coreID)   // core-bound and sink-bound links
//	sources := result.SourcesFor(coreID) // loaded border sources
//
// # Concurrency
//
// A System is owned by a single caller. [System.Route] mutates channel loads
// in place.
package manycore
