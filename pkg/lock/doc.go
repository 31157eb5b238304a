/*
Package lock serializes writers of the same resource.

A Manager keeps one in-process mutex per resource name, reference counted so that
idle names are forgotten, and can additionally take a cross-process lock through a
ports.DistributedLocker before running the critical section.
*/
package lock
