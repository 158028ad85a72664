// Package outbox implements the transactional outbox used to bridge a
// module-local database commit to an eventually-delivered integration event.
//
// A record is appended inside the same unit of work as the domain state
// change it describes, drained by a background relay in commit order, and
// published to the broker under the aggregate identifier as partition key.
// Delivery is at-least-once; the PENDING to SENT flip is a conditional
// update so concurrent relay instances never double-apply it.
package outbox
