// Package fileutil writes output files atomically through temporary siblings.
package fileutil
