// Package interaction implements the interaction ledger and toggle engine for
// the community-content context.
//
// Like and bookmark edges are the source of truth; the content store's
// counters are caches maintained in the same unit of work as the edge flip.
// A toggle never errors on repeat calls, each call flips the edge state.
package interaction
