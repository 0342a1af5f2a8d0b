// Package bot drives the whole process: a fixed-interval poll loop that
// receives a batch of events, dispatches each one, and sleeps.
//
// The loop has two states. RUNNING receives and dispatches; any error
// escaping a receive cycle moves it to RECOVERING, which re-establishes
// the session under a bounded backoff policy before resuming. Exhausting
// the reconnect budget is fatal and ends Run with an error.
package bot
