//go:build !store_devmode && !store_prodmode

package store

const compiledBuildHint = BuildHintAbsent
