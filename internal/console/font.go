package console

import "github.com/asos-project/asos/internal/memory"

// GlyphRows returns the 16 font rows (each a row of 8 pixels packed
// into a byte, MSB first) for glyph ch, read from memory.FontAddr per
// spec.md §6's 8x16 font layout.
func GlyphRows(ch uint8) [memory.FontRows]byte {
	var rows [memory.FontRows]byte
	base := memory.FontAddr + uint32(ch)*memory.FontRows
	for i := 0; i < memory.FontRows; i++ {
		b, err := memory.ReadByte(base + uint32(i))
		if err != nil {
			continue
		}
		rows[i] = b
	}
	return rows
}
