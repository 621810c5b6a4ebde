package chunk

// DataVersion thresholds pinned from the Minecraft wiki's data version table.
// They gate two independent decisions: which bit-packing layout a section's
// long arrays use, and whether a chunk's fields live under a "Level"
// sub-compound or are flattened onto the chunk root.
const (
	// dataVersion1_16 is the first DataVersion saved by game version 1.16.
	// Chunks at or above it use the padded ("aligned") packing where a value
	// never straddles a 64-bit word; below it, values are packed with no
	// padding and can straddle words ("compact").
	dataVersion1_16 int32 = 2529

	// dataVersion1_18 is the first DataVersion saved by game version 1.18.
	// Chunks at or above it store their fields flattened onto the chunk
	// root; below it, chunk fields live under a "Level" compound.
	dataVersion1_18 int32 = 2825
)

// PackingVariant selects which bit-packing layout a section's long arrays
// use, keyed off a chunk's DataVersion against dataVersion1_16.
type PackingVariant int

const (
	// PackingCompact packs values with no padding; a value may straddle two
	// 64-bit words. Used below dataVersion1_16.
	PackingCompact PackingVariant = iota
	// PackingAligned pads each word so a value never straddles two 64-bit
	// words. Used at or above dataVersion1_16.
	PackingAligned
)

func (v PackingVariant) String() string {
	if v == PackingAligned {
		return "aligned"
	}
	return "compact"
}

// VariantForDataVersion returns the packing layout a chunk with the given
// DataVersion uses.
func VariantForDataVersion(dataVersion int32) PackingVariant {
	if dataVersion >= dataVersion1_16 {
		return PackingAligned
	}
	return PackingCompact
}
