// Package testsupport holds helpers shared by package tests: isolated
// configurations rooted in temp directories, stub executables on PATH, and
// a store opened against the temp database.
package testsupport
