// Package authorization implements the capability checks inside the
// identity-access context.
//
// Role comparisons that used to be scattered across controllers live behind a
// single surface here: CanReview for report review, CanModerate for content
// deletion/restore paths, and actor resolution (existence + suspension) that
// the interaction and report services consume before any mutation.
package authorization
