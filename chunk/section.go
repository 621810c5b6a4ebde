package chunk

// BlockState is one entry in a section's block palette: a block name plus its
// optional property assignments (e.g. facing, waterlogged).
type BlockState struct {
	Name       string
	Properties map[string]string
}

const (
	blocksPerSection = 16 * 16 * 16
	biomesPerSection = 4 * 4 * 4
	minBlockBits     = 4
	minBiomeBits     = 1
)

// Section is one 16x16x16 cube of a chunk, with independent block and biome
// palettes.
type Section struct {
	Y int8

	BlockPalette []BlockState
	PackedData   []int64

	BiomePalette []string
	BiomeData    []int64

	variant PackingVariant

	blockIndices []int
	biomeIndices []int
}

func (s *Section) blockBits() int {
	return BitsForPaletteSize(len(s.BlockPalette), minBlockBits)
}

func (s *Section) biomeBits() int {
	return BitsForPaletteSize(len(s.BiomePalette), minBiomeBits)
}

func (s *Section) ensureBlockIndices() error {
	if s.blockIndices != nil {
		return nil
	}
	idx, err := UnpackIndices(s.PackedData, s.blockBits(), blocksPerSection, s.variant)
	if err != nil {
		return err
	}
	s.blockIndices = idx
	return nil
}

func (s *Section) ensureBiomeIndices() error {
	if s.biomeIndices != nil {
		return nil
	}
	idx, err := UnpackIndices(s.BiomeData, s.biomeBits(), biomesPerSection, s.variant)
	if err != nil {
		return err
	}
	s.biomeIndices = idx
	return nil
}

// BlockAt returns the palette entry for the block at local coordinates
// x, y, z, each in [0, 16), using the canonical idx = y*256 + z*16 + x
// ordering.
func (s *Section) BlockAt(x, y, z int) (BlockState, error) {
	if err := s.ensureBlockIndices(); err != nil {
		return BlockState{}, err
	}
	pi := s.blockIndices[y*256+z*16+x]
	if pi < 0 || pi >= len(s.BlockPalette) {
		return BlockState{}, &PaletteIndexOutOfRangeError{Index: pi, PaletteSize: len(s.BlockPalette)}
	}
	return s.BlockPalette[pi], nil
}

// BiomeAt returns the biome name at local biome-cell coordinates x, y, z,
// each in [0, 4), using the canonical idx = y*16 + z*4 + x ordering. It
// returns an empty string and no error for sections that carry no biome
// palette (pre-1.18 chunks track biomes at the chunk, not section, level).
func (s *Section) BiomeAt(x, y, z int) (string, error) {
	if len(s.BiomePalette) == 0 {
		return "", nil
	}
	if err := s.ensureBiomeIndices(); err != nil {
		return "", err
	}
	pi := s.biomeIndices[y*16+z*4+x]
	if pi < 0 || pi >= len(s.BiomePalette) {
		return "", &PaletteIndexOutOfRangeError{Index: pi, PaletteSize: len(s.BiomePalette)}
	}
	return s.BiomePalette[pi], nil
}
