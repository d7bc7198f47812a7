package orderview

// ResolveCombos indexes a combo summary list by combo id.
// Duplicate ids keep the last entry; entries without an id are skipped.
func ResolveCombos(combos []ComboDescriptor) map[string]ComboDescriptor {
	out := make(map[string]ComboDescriptor, len(combos))
	for _, c := range combos {
		if c.ComboID == "" {
			continue
		}
		out[c.ComboID] = c
	}
	return out
}
