// Package store implements the entry table behind a reference graph.
//
// # Overview
//
// A Store is an ordered table of entries. Each entry pairs a permanent
// EntryID with the state of one strong reference: its owned block, its count
// and the ids it depends on. Ids come from a monotonic counter and are never
// handed out twice, so a stale id can never name a later entry.
//
// # Indexes
//
// Three maps sit beside the table:
//
//   - id → position, so removal by id never relies on a position captured
//     before an earlier mutation
//   - block address → id, for re-acquiring an allocation by its bytes
//   - id → dependent ids, the reverse of each entry's dependency list
//
// # Capacity
//
// The store tracks a logical capacity. Inserting into a full table multiplies
// capacity by the growth ratio. After every removal, when fewer than
// capacity/ratio entries remain, capacity is divided by the ratio, but never
// below the initial capacity.
//
// # Thread Safety
//
// Store instances are not thread-safe. Callers must synchronize access
// externally.
package store
