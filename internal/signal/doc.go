// Package signal provides the event plumbing shared by the viewer
// controllers: a synchronous typed Bus, a Scope that owns and revokes a
// controller's subscriptions in one call, a TokenSource for discarding late
// results of background lookups, and the Sink through which the engine
// reports detected frame rates and play-state changes to its host.
package signal
