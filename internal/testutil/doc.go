// Package testutil provides small dataset builders shared by tests. It is
// internal: fixtures here are conveniences for exercising the trainer and
// the in-process engine, not a public corpus API.
package testutil
