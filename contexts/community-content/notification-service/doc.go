// Package notification implements notification fan-out for the
// community-content context.
//
// LIKE notifications are deduplicated per (recipient, content, type) so that
// repeated likes by different actors collapse into one row. COMMENT and REPLY
// notifications are intentionally not deduplicated. Delivery failures are
// absorbed by callers; a notification glitch never rolls back the action that
// triggered it.
package notification
