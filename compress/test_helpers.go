package compress

// GetLevel returns the compression level of a Block
func (b *Block[T]) GetLevel() CompressionLevel {
	return b.level
}
