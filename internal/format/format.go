// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package format turns raw metadata values into the human-readable strings
// shown on the page and in the terminal. Every function is pure.
package format

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Unknown is rendered for values the backend did not supply.
const Unknown = "Unknown"

// byteUnits extends past GB so the whole int64 range has a unit.
var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB"}

// Duration renders seconds as H:MM:SS from one hour upwards and M:SS below.
// Negative input is clamped to zero.
func Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Number abbreviates large counts: 1.5K, 2.5M. Below 1000 the integer is
// returned as is. One decimal is always kept ("1.0K").
func Number(n int64) string {
	switch {
	case n >= 1_000_000:
		return toFixed(float64(n)/1_000_000, 1) + "M"
	case n >= 1_000:
		return toFixed(float64(n)/1_000, 1) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// Bytes renders a size with binary (1024) steps and at most two decimals,
// trailing zeros dropped: 1024 -> "1 KB", 1536 -> "1.5 KB".
func Bytes(n int64) string {
	if n == 0 {
		return "0 Bytes"
	}
	if n < 0 {
		// uint64 conversion keeps math.MinInt64 representable.
		return "-" + bytesOf(uint64(-(n + 1))+1)
	}
	return bytesOf(uint64(n))
}

func bytesOf(n uint64) string {
	i := 0
	for i < len(byteUnits)-1 && n>>(10*(i+1)) > 0 {
		i++
	}
	v := float64(n) / math.Pow(1024, float64(i))
	return trimZeros(toFixed(v, 2)) + " " + byteUnits[i]
}

// Date reformats a YYYYMMDD upload date as YYYY-MM-DD. The calendar is not
// validated; nil or any other length yields Unknown.
func Date(s *string) string {
	if s == nil {
		return Unknown
	}
	return DateString(*s)
}

// DateString is Date for a plain string.
func DateString(s string) string {
	r := []rune(s)
	if len(r) != 8 {
		return Unknown
	}
	return string(r[0:4]) + "-" + string(r[4:6]) + "-" + string(r[6:8])
}

// toFixed rounds x to the given number of decimals the way browsers do:
// the exact binary value is rounded and exact halves go up.
// strconv alone would round exact halves to even (1.25 -> "1.2").
func toFixed(x float64, digits int) string {
	scaled := new(big.Float).SetPrec(256).SetFloat64(x)
	scaled.Mul(scaled, new(big.Float).SetPrec(256).SetFloat64(math.Pow10(digits)))

	whole, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(scaled, new(big.Float).SetPrec(256).SetInt(whole))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		whole.Add(whole, big.NewInt(1))
	}

	s := whole.String()
	if digits == 0 {
		return s
	}
	if len(s) <= digits {
		s = strings.Repeat("0", digits-len(s)+1) + s
	}
	return s[:len(s)-digits] + "." + s[len(s)-digits:]
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
