// Package crfbind provides a high-level façade over the trainer and engine
// abstractions for training linear-chain Conditional Random Fields. Most
// applications interact with this package by:
//  1. Creating a Trainer via New() (optionally overriding the engine,
//     logger or progress-message handler)
//  2. Selecting an algorithm and appending marshalled training instances
//  3. Tuning typed parameters and invoking the blocking Train call
//
// The façade delegates lifecycle orchestration to trainer.Trainer while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing: the bundled in-process engine, a no-op logger
// and a handler that logs engine progress messages at the informational
// level. Production integrations typically supply a structured logger and,
// where available, a cgo-backed engine implementation of core.Engine.
package crfbind

import (
	"github.com/billhsia/crfbind/core"
	"github.com/billhsia/crfbind/sequence"
	"github.com/billhsia/crfbind/trainer"
)

// Trainer re-exports the trainer type for single-import consumers.
type Trainer = trainer.Trainer

// Options re-exports the trainer options.
type Options = trainer.Options

// Attribute, Item and ItemSequence re-export the engine data layout.
type (
	Attribute    = core.Attribute
	Item         = core.Item
	ItemSequence = core.ItemSequence
)

// New creates a Trainer wired to the in-process engine unless overridden.
// The returned Trainer must be released with Close.
func New(optFns ...func(o *trainer.Options)) (*trainer.Trainer, error) {
	return trainer.New(optFns...)
}

// FromLists marshals plain feature-name lists (weight 1.0 each), one list
// per token.
func FromLists(tokens [][]string) core.ItemSequence {
	return sequence.FromLists(tokens)
}

// FromFeatures marshals ordered (name, weight) features, one set per token.
func FromFeatures(tokens []sequence.Features) core.ItemSequence {
	return sequence.FromFeatures(tokens)
}
