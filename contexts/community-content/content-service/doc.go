// Package content implements the content store for the community-content
// context: posts and comments with denormalized counters and soft deletion.
//
// Counters are read-optimized caches over the interaction ledger and the
// comment tree; the ledger rows stay authoritative. Soft deletion is a
// monotonic flag flip with shallow cascade: flagging a post never rewrites its
// descendant comments, visibility is filtered at read time instead.
package content
