package compress

// Compress encodes payloads before they hit a storage column and decodes them
// on the way out. Implementations must be symmetric: Decode(Encode(x)) == x.
type Compress interface {
	Name() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// ByName returns the codec for a configured name, defaulting to Nop.
func ByName(name string) Compress {
	switch name {
	case "gzip":
		return NewGZip()
	case "brotli":
		return NewBrotli()
	case "lz4":
		return NewLZ4()
	default:
		return NewNop()
	}
}

// ForDecoding picks the codec recorded on a row. Rows written before
// compression was enabled carry an empty name and decode as-is.
func ForDecoding(name string) Compress {
	return ByName(name)
}
