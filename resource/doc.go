// Package resource bounds the memory, transfer concurrency and IO bandwidth
// used by array allocation and snapshot persistence.
//
// A nil *Controller is valid and imposes no limits.
package resource
