// Package types defines the Book entity, the Store and Library interfaces,
// and the standard errors shared by the shelf packages.
package types
