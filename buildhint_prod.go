//go:build store_prodmode

package store

const compiledBuildHint = BuildHintProduction
