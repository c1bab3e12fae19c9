// Package budget reconstructs and mutates the state of a personal-finance
// budget that is persisted as one full snapshot plus any number of small,
// per-device append-only delta segments.
//
// Several independent devices may each append their own segments over time
// without ever talking to each other. Any reader can take the snapshot plus
// all known segments, in any discovery order, and deterministically rebuild
// one consistent current state.
//
// The core functionalities include:
//   - Snapshot Loading: parsing the full-state document into typed entity
//     tables (accounts, payees, categories, monthly budgets, transactions).
//   - Reconciliation: discovering every device's delta segments, ordering
//     their revisions by a globally comparable version counter, and folding
//     them onto the snapshot with last-writer-wins and tombstone semantics.
//   - Knowledge Tracking: registering devices, computing the global
//     high-water-mark counter, and minting fresh counter ranges strictly
//     above it so that last-writer-wins stays well defined.
//   - Committing: turning in-memory changes back into a new delta segment
//     in the exact on-disk layout other devices expect, together with the
//     committing device's updated metadata record.
//
// This package serves as the foundational logic for the `bud` command-line
// tool. It assumes a single logical writer per load-mutate-commit session;
// advisory locking and backups belong to the caller.
package budget
