// Package lockset eliminates circular-wait deadlocks for code that must hold
// several locks at once. A LockSet assigns every named lock a fixed rank;
// Acquire sorts the requested locks by rank, takes them in ascending order
// and returns a Guard releasing them in descending order. Two callers that
// request overlapping subsets can never hold a prefix while waiting on a lock
// the other holds in the opposite order.
//
// The guarantee only covers acquisitions performed through the set. Mixing
// ordered and manual acquisition reintroduces the risk; enable the debug
// validator with SetValidate to panic on out-of-order manual Lock calls.
package lockset
