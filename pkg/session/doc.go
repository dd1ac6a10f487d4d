// Package session serializes each user's conversation turns and owns the
// per-user navigation session.
//
// Locks are held per user id and garbage collected by reference count, so an
// idle user costs nothing. An optional ports.DistributedLocker extends the
// guarantee across replicas.
package session
