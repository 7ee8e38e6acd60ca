package format

type (
	EngineType uint8
	Mode       uint8
)

const (
	EngineStdlib    EngineType = 0x1 // EngineStdlib represents the Go standard library compress/zlib.
	EngineKlauspost EngineType = 0x2 // EngineKlauspost represents klauspost/compress/zlib.
	EngineFastgo    EngineType = 0x3 // EngineFastgo represents Intel's fastgo flate with zlib framing.
	EngineCgo       EngineType = 0x4 // EngineCgo represents the system libz through cgo.

	ModeCompress   Mode = 0x1 // ModeCompress measures compression (deflate).
	ModeDecompress Mode = 0x2 // ModeDecompress measures decompression (inflate).
)

// Compression levels accepted by every engine.
const (
	MinLevel     = 1
	MaxLevel     = 9
	DefaultLevel = 6
)

// engineTypes lists every known engine in registration order.
var engineTypes = []EngineType{
	EngineStdlib,
	EngineKlauspost,
	EngineFastgo,
	EngineCgo,
}

// EngineTypes returns all known engine types in registration order.
//
// The returned slice is a copy and may be modified by the caller.
func EngineTypes() []EngineType {
	types := make([]EngineType, len(engineTypes))
	copy(types, engineTypes)

	return types
}

// ParseEngineType returns the engine type whose display name is name.
func ParseEngineType(name string) (EngineType, bool) {
	for _, t := range engineTypes {
		if t.String() == name {
			return t, true
		}
	}

	return 0, false
}

// ValidLevel reports whether level is within [MinLevel, MaxLevel].
func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

// String returns the display name used verbatim in reports.
func (e EngineType) String() string {
	switch e {
	case EngineStdlib:
		return "zlib-go"
	case EngineKlauspost:
		return "zlib-klauspost"
	case EngineFastgo:
		return "flate-fastgo"
	case EngineCgo:
		return "zlib-og"
	default:
		return "Unknown"
	}
}

func (m Mode) String() string {
	switch m {
	case ModeCompress:
		return "compress"
	case ModeDecompress:
		return "decompress"
	default:
		return "Unknown"
	}
}
