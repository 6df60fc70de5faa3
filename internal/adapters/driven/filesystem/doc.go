// Package filesystem writes export output under a root directory.
package filesystem
