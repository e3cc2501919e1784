// Package inventory holds the stock rules of the backend as pure functions
// over in-memory batches: FIFO selection and dispatch planning, expiration
// classification, dashboard aggregation and the batch report.
//
// Nothing here touches storage. Callers load batches, pass them in together
// with the current time, and persist whatever the functions decide.
package inventory
