package value

// Merge composes maps ordered from strongest to weakest into a new mutable
// map. Keys present in a stronger map win; weaker maps only fill keys that are
// still missing. The merge is shallow: a colliding key takes the stronger
// entry as a whole, nested containers are never combined, and entries are
// shared with the inputs rather than copied.
func Merge(layers ...*Map) *Map {
	merged := NewMap()
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		if layer == nil {
			continue
		}
		for key, entry := range layer.entries {
			merged.entries[key] = entry
		}
	}
	return merged
}

// MissingKeys returns the keys of weak that are absent from strong, sorted.
func MissingKeys(strong, weak *Map) []string {
	var missing []string
	for _, key := range weak.Keys() {
		if !strong.Has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}
