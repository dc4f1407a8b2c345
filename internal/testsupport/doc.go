// Package testsupport provides config and file fixtures for package tests.
package testsupport
