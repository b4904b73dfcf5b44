package ops

import "math"

// mathOps backs operator_math_op's OPERATOR dropdown.
var mathOps = map[string]func(float64) float64{
	"abs":     math.Abs,
	"floor":   math.Floor,
	"ceiling": math.Ceil,
	"sqrt":    math.Sqrt,
	"sin":     func(n float64) float64 { return math.Sin(n * math.Pi / 180) },
	"cos":     func(n float64) float64 { return math.Cos(n * math.Pi / 180) },
	"tan":     func(n float64) float64 { return math.Tan(n * math.Pi / 180) },
	"asin":    func(n float64) float64 { return math.Asin(n) * 180 / math.Pi },
	"acos":    func(n float64) float64 { return math.Acos(n) * 180 / math.Pi },
	"atan":    func(n float64) float64 { return math.Atan(n) * 180 / math.Pi },
	"ln":      math.Log,
	"log":     math.Log10,
	"e ^":     math.Exp,
	"10 ^":    func(n float64) float64 { return math.Pow(10, n) },
}
