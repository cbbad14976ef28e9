package kernel

import "errors"

// DefaultConfig returns a text-mode boot configuration at the stock
// PIT rate, pointing at diskImagePath.
func DefaultConfig(diskImagePath string) Config {
	return Config{DiskImagePath: diskImagePath, TimerHz: pitDefaultHz}
}

const pitDefaultHz = 100

// Validate reports whether cfg is well-formed enough to boot.
func (cfg Config) Validate() error {
	if cfg.DiskImagePath == "" {
		return errors.New("kernel: disk image path is required")
	}
	if (cfg.GraphicsWidth > 0) != (cfg.GraphicsHeight > 0) {
		return errors.New("kernel: graphics width and height must both be set or both zero")
	}
	return nil
}
