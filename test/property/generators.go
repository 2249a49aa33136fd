//go:build property
// +build property

package property

import (
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/mosiko1234/trayicon/internal/platform"
)

// opKind is one mutation applied to a tray icon in a generated sequence.
type opKind int

const (
	opSetIcon opKind = iota
	opSetTooltip
	opHide
	opShow
)

type trayOp struct {
	Kind    opKind
	Tooltip string
}

// genTooltip generates tooltips that mix ASCII, BMP and astral characters
// and regularly exceed the tooltip buffer.
func genTooltip() gopter.Gen {
	return gen.OneGenOf(
		gen.AlphaString(),
		gen.UnicodeString(unicode.So),
		gen.SliceOfN(140, gen.AlphaChar()).Map(func(rs []rune) string { return string(rs) }),
	)
}

func genTrayOp() gopter.Gen {
	return gopter.CombineGens(gen.IntRange(0, 3), genTooltip()).Map(func(vals []interface{}) trayOp {
		return trayOp{Kind: opKind(vals[0].(int)), Tooltip: vals[1].(string)}
	})
}

func genTrayOps() gopter.Gen {
	return gen.SliceOf(genTrayOp())
}

// genDPI generates DPI readings from 100% to 400% scaling.
func genDPI() gopter.Gen {
	return gen.UInt32Range(platform.DefaultDPI, 4*platform.DefaultDPI)
}

func genCoord() gopter.Gen {
	return gen.Int32Range(-10000, 10000)
}
