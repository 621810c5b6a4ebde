// Package chunk decodes a Minecraft chunk's NBT document (as produced by
// decompressing a region file entry via package region) into a structured,
// version-tolerant view.
package chunk

import (
	"fmt"

	"github.com/astei/anvilcore/nbt"
)

// Chunk is a decoded chunk column, version-normalized so callers do not need
// to know whether the source document was a pre-1.18 "Level" chunk or a
// flattened one.
type Chunk struct {
	DataVersion int32
	X, Z        int32
	Sections    []Section
	HeightMaps  nbt.Value
}

type paletteEntry struct {
	Name       string            `nbt:"Name"`
	Properties map[string]string `nbt:"Properties,omitempty"`
}

func (p paletteEntry) blockState() BlockState {
	return BlockState{Name: p.Name, Properties: p.Properties}
}

// legacyChunkRoot mirrors the pre-1.18 "Level" chunk layout, where every
// per-section long array is the block palette's data directly (no nested
// block_states compound) and biomes are a whole-chunk int array rather than
// a per-section palette.
type legacyChunkRoot struct {
	DataVersion int32 `nbt:"DataVersion"`
	Level       struct {
		X          int32           `nbt:"xPos"`
		Z          int32           `nbt:"zPos"`
		Sections   []legacySection `nbt:"Sections,omitempty"`
		HeightMaps nbt.Value       `nbt:"HeightMaps,omitempty"`
		Biomes     nbt.IntArray    `nbt:"Biomes,omitempty"`
	} `nbt:"Level"`
}

type legacySection struct {
	Y           int8          `nbt:"Y"`
	BlockStates nbt.LongArray `nbt:"BlockStates,omitempty"`
	Palette     []paletteEntry `nbt:"Palette,omitempty"`
}

// flattenedChunkRoot mirrors the 1.18+ layout, where chunk fields sit
// directly on the root compound and each section carries its own
// block_states{palette,data} and biomes{palette,data} sub-compounds.
type flattenedChunkRoot struct {
	DataVersion int32         `nbt:"DataVersion"`
	X           int32         `nbt:"xPos"`
	Z           int32         `nbt:"zPos"`
	Sections    []flatSection `nbt:"sections,omitempty"`
	HeightMaps  nbt.Value     `nbt:"Heightmaps,omitempty"`
}

type blockStatesCompound struct {
	Palette []paletteEntry `nbt:"palette,omitempty"`
	Data    nbt.LongArray  `nbt:"data,omitempty"`
}

type biomesCompound struct {
	Palette []string      `nbt:"palette,omitempty"`
	Data    nbt.LongArray `nbt:"data,omitempty"`
}

type flatSection struct {
	Y           int8                `nbt:"Y"`
	BlockStates blockStatesCompound `nbt:"block_states,omitempty"`
	Biomes      biomesCompound      `nbt:"biomes,omitempty"`
}

// Decode parses decompressed chunk NBT bytes into a Chunk. It dispatches on
// DataVersion, found with a lightweight pre-pass over the stream (via the
// nbt package's cursor primitives directly, skipping every other field)
// before committing to a full schema-driven decode.
func Decode(data []byte) (*Chunk, error) {
	dv, err := scanDataVersion(data)
	if err != nil {
		return nil, err
	}
	variant := VariantForDataVersion(dv)

	if dv >= dataVersion1_18 {
		var root flattenedChunkRoot
		if err := nbt.Unmarshal(data, &root); err != nil {
			return nil, err
		}
		return root.toChunk(variant), nil
	}

	var root legacyChunkRoot
	if err := nbt.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return root.toChunk(variant), nil
}

func scanDataVersion(data []byte) (int32, error) {
	r := nbt.NewReader(data)
	if _, _, err := r.ReadRootHeader(); err != nil {
		return 0, err
	}
	for {
		tag, name, err := r.ReadFieldHeader()
		if err != nil {
			return 0, err
		}
		if tag == nbt.TagEnd {
			return 0, fmt.Errorf("chunk: no DataVersion field in root compound")
		}
		if name == "DataVersion" {
			if tag != nbt.TagInt {
				return 0, &nbt.UnexpectedTagError{Want: nbt.TagInt, Got: tag}
			}
			return r.ReadInt32()
		}
		if err := r.SkipPayload(tag); err != nil {
			return 0, err
		}
	}
}

func (root *legacyChunkRoot) toChunk(variant PackingVariant) *Chunk {
	c := &Chunk{
		DataVersion: root.DataVersion,
		X:           root.Level.X,
		Z:           root.Level.Z,
		HeightMaps:  root.Level.HeightMaps,
		Sections:    make([]Section, len(root.Level.Sections)),
	}
	for i, s := range root.Level.Sections {
		palette := make([]BlockState, len(s.Palette))
		for j, p := range s.Palette {
			palette[j] = p.blockState()
		}
		c.Sections[i] = Section{
			Y:            s.Y,
			BlockPalette: palette,
			PackedData:   []int64(s.BlockStates),
			variant:      variant,
		}
	}
	return c
}

func (root *flattenedChunkRoot) toChunk(variant PackingVariant) *Chunk {
	c := &Chunk{
		DataVersion: root.DataVersion,
		X:           root.X,
		Z:           root.Z,
		HeightMaps:  root.HeightMaps,
		Sections:    make([]Section, len(root.Sections)),
	}
	for i, s := range root.Sections {
		blockPalette := make([]BlockState, len(s.BlockStates.Palette))
		for j, p := range s.BlockStates.Palette {
			blockPalette[j] = p.blockState()
		}
		c.Sections[i] = Section{
			Y:            s.Y,
			BlockPalette: blockPalette,
			PackedData:   []int64(s.BlockStates.Data),
			BiomePalette: append([]string(nil), s.Biomes.Palette...),
			BiomeData:    []int64(s.Biomes.Data),
			variant:      variant,
		}
	}
	return c
}
