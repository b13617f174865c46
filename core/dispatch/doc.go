// Package dispatch implements the batching engine between event producers
// and the remote metrics service.
//
// Producers call Submit, which shapes events into payloads and places them on
// a bounded queue. A pool of workers drains the queue: each worker blocks for
// one item, opportunistically collects more without waiting, and hands the
// grouped batch to the configured Sender. Workers are independent, so two
// workers may each deliver a partial batch of events submitted within the
// same instant; this favors latency over perfectly coalesced requests.
//
// A failed send is logged, counted and dropped. The engine never retries and
// never lets a sender error or panic terminate a worker.
package dispatch
