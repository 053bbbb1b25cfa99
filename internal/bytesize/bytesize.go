// Package bytesize parses and prints human-readable byte quantities used in
// configuration files and CLI flags ("64Ki", "1MiB", "4096").
package bytesize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ByteSize is a size in bytes.
//
// Supported input formats:
//   - Plain numbers: 1024, 1073741824
//   - Binary units (×1024): Ki/KiB, Mi/MiB, Gi/GiB, Ti/TiB
//   - Decimal units (×1000): K/KB, M/MB, G/GB, T/TB
//   - Bytes: B
//
// Units are case-insensitive and may be separated from the number by
// spaces. Fractions are accepted when a unit is given ("1.5Mi").
type ByteSize uint64

// Common byte size constants
const (
	B  ByteSize = 1
	KB ByteSize = 1000
	MB ByteSize = 1000 * KB
	GB ByteSize = 1000 * MB
	TB ByteSize = 1000 * GB

	KiB ByteSize = 1024
	MiB ByteSize = 1024 * KiB
	GiB ByteSize = 1024 * MiB
	TiB ByteSize = 1024 * GiB
)

// ErrOverflow is returned when a size does not fit in 64 bits.
var ErrOverflow = errors.New("byte size overflows uint64")

var units = map[string]ByteSize{
	"":    B,
	"b":   B,
	"k":   KB,
	"kb":  KB,
	"m":   MB,
	"mb":  MB,
	"g":   GB,
	"gb":  GB,
	"t":   TB,
	"tb":  TB,
	"ki":  KiB,
	"kib": KiB,
	"mi":  MiB,
	"mib": MiB,
	"gi":  GiB,
	"gib": GiB,
	"ti":  TiB,
	"tib": TiB,
}

// Parse parses a human-readable byte size.
func Parse(s string) (ByteSize, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	split := strings.IndexFunc(trimmed, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	numStr, unitStr := trimmed, ""
	if split >= 0 {
		numStr, unitStr = trimmed[:split], strings.TrimSpace(trimmed[split:])
	}
	if numStr == "" {
		return 0, fmt.Errorf("invalid byte size format: %q", s)
	}

	multiplier, ok := units[strings.ToLower(unitStr)]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit: %q", unitStr)
	}

	if strings.Contains(numStr, ".") {
		num, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number in byte size: %q", numStr)
		}
		total := num * float64(multiplier)
		if total >= math.MaxUint64 {
			return 0, fmt.Errorf("%q: %w", s, ErrOverflow)
		}
		return ByteSize(total), nil
	}

	num, err := strconv.ParseUint(numStr, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%q: %w", s, ErrOverflow)
		}
		return 0, fmt.Errorf("invalid number in byte size: %q", numStr)
	}
	if num > math.MaxUint64/uint64(multiplier) {
		return 0, fmt.Errorf("%q: %w", s, ErrOverflow)
	}
	return ByteSize(num) * multiplier, nil
}

// ParseByteSize is an alias of Parse kept for config decode hooks.
func ParseByteSize(s string) (ByteSize, error) {
	return Parse(s)
}

// UnmarshalText implements encoding.TextUnmarshaler, which lets viper,
// yaml and pflag decode sizes directly.
func (b *ByteSize) UnmarshalText(text []byte) error {
	size, err := Parse(string(text))
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// MarshalText implements encoding.TextMarshaler using String.
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// String returns the shortest exact binary representation ("64Ki",
// "3Mi") when one exists, otherwise two decimals in the largest fitting
// binary unit ("1.50MiB"), or plain bytes below 1 KiB ("100B").
func (b ByteSize) String() string {
	for _, u := range []struct {
		size ByteSize
		name string
	}{{TiB, "Ti"}, {GiB, "Gi"}, {MiB, "Mi"}, {KiB, "Ki"}} {
		if b >= u.size {
			if b%u.size == 0 {
				return strconv.FormatUint(uint64(b/u.size), 10) + u.name
			}
			return fmt.Sprintf("%.2f%sB", float64(b)/float64(u.size), u.name)
		}
	}
	return strconv.FormatUint(uint64(b), 10) + "B"
}

// Set implements pflag.Value so sizes can be CLI flags.
func (b *ByteSize) Set(s string) error {
	return b.UnmarshalText([]byte(s))
}

// Type implements pflag.Value.
func (b *ByteSize) Type() string {
	return "bytesize"
}

// Uint64 returns the ByteSize as a uint64.
func (b ByteSize) Uint64() uint64 {
	return uint64(b)
}

// Int returns the size as an int, clamped to math.MaxInt.
func (b ByteSize) Int() int {
	if uint64(b) > math.MaxInt {
		return math.MaxInt
	}
	return int(b)
}
