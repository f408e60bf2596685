// Package report implements the moderation state machine for the
// moderation-safety context.
//
// A report moves PENDING to APPROVED or REJECTED exactly once; the transition
// is a compare-and-set so racing reviewers cannot both win. Approval snapshots
// the offending content before soft-deleting it, and the cascade is shallow:
// approving a post report never flips its comments.
package report
