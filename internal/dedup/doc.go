// Package dedup removes candidates that collide with titles already scheduled
// or already kept earlier in the same batch.
//
// Two windows apply. The standard window rejects any candidate whose key was
// posted on or before now and less than WindowDays ago. Anniversary candidates
// are additionally rejected when a non-anniversary post for the same key sits
// within the cross window on either side of now. The cross rule only runs in
// that direction: an anniversary post never blocks a later standard post.
//
// The in-batch Seen set is owned by the caller and threaded through
// Deduplicate; the package keeps no state between calls.
package dedup
