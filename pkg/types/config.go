package types

// Compression names the PNG compression level used when writing output.
type Compression string

const (
	CompressionDefault Compression = "default"
	CompressionBest    Compression = "best"
	CompressionSpeed   Compression = "speed"
	CompressionNone    Compression = "none"
)

// Optimizer names the external lossless PNG optimizer run after a write.
type Optimizer string

const (
	OptimizerNone    Optimizer = "none"
	OptimizerAuto    Optimizer = "auto"
	OptimizerOxipng  Optimizer = "oxipng"
	OptimizerOptipng Optimizer = "optipng"
)

// DefaultExtension is the source file extension picked up in directory mode.
const DefaultExtension = ".webp"

// ConversionConfig holds settings for the convert command.
type ConversionConfig struct {
	// Background is the hex colour transparent pixels are composited onto
	// (default "#ffffff").
	Background string `json:"background" yaml:"background"`

	// Compression selects the PNG compression level (default "best").
	Compression Compression `json:"compression" yaml:"compression"`

	// Optimizer selects an external optimizer pass: none, auto, oxipng, optipng.
	Optimizer Optimizer `json:"optimizer" yaml:"optimizer"`

	// Extension is the source extension matched case-insensitively (default ".webp").
	Extension string `json:"extension" yaml:"extension"`

	// SkipExisting leaves an existing PNG in place instead of overwriting it.
	SkipExisting bool `json:"skip_existing" yaml:"skip_existing"`
}

// JournalConfig holds settings for the conversion history database.
type JournalConfig struct {
	// Path is the SQLite database file. Empty disables the journal.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default number of entries listed by history (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// SamplesConfig holds settings for demo image generation.
type SamplesConfig struct {
	// Dir is the output directory for generated WebP samples.
	Dir string `json:"dir" yaml:"dir"`

	// Quality is the lossy WebP quality in [0, 100] (default 90).
	Quality float32 `json:"quality" yaml:"quality"`
}

// Config groups all command configurations.
type Config struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Samples    SamplesConfig    `json:"samples" yaml:"samples"`
}
