package converter

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

type literalConverter struct{}

func (literalConverter) fromSyntax(_ *Context, node oracle.Node) result {
	lit := node.Child(oracle.RoleLiteral)
	if lit == nil {
		violation(node, "literal type without a literal")
	}
	switch lit.Kind() {
	case oracle.KindTrueKeyword:
		return converted(&model.LiteralType{Value: true})
	case oracle.KindFalseKeyword:
		return converted(&model.LiteralType{Value: false})
	case oracle.KindNullKeyword:
		return converted(&model.LiteralType{Value: nil})
	case oracle.KindStringLiteral, oracle.KindNoSubstitutionTemplateLiteral:
		return converted(&model.LiteralType{Value: lit.Text()})
	case oracle.KindNumericLiteral:
		return converted(&model.LiteralType{Value: parseNumber(lit, lit.Text())})
	case oracle.KindBigIntLiteral:
		return converted(&model.LiteralType{Value: parseBigInt(lit, lit.Text())})
	case oracle.KindPrefixUnaryExpression:
		operand := lit.Child(oracle.RoleOperand)
		if operand == nil {
			break
		}
		negative := lit.Operator() == oracle.KindMinusToken
		switch operand.Kind() {
		case oracle.KindNumericLiteral:
			v := parseNumber(operand, operand.Text())
			if negative {
				v = -v
			}
			return converted(&model.LiteralType{Value: v})
		case oracle.KindBigIntLiteral:
			v := parseBigInt(operand, operand.Text())
			if negative {
				v.Neg(v)
			}
			return converted(&model.LiteralType{Value: v})
		}
	}
	violation(lit, "unhandled literal kind %s", lit.Kind())
	return result{}
}

func (literalConverter) fromType(ctx *Context, t oracle.Type, node oracle.Node) result {
	if lit := node.Child(oracle.RoleLiteral); lit != nil {
		switch lit.Kind() {
		case oracle.KindTrueKeyword:
			return converted(&model.LiteralType{Value: true})
		case oracle.KindFalseKeyword:
			return converted(&model.LiteralType{Value: false})
		case oracle.KindNullKeyword:
			return converted(&model.LiteralType{Value: nil})
		}
	}
	switch v := ctx.oracle.LiteralValue(t).(type) {
	case oracle.PseudoBigInt:
		n, ok := new(big.Int).SetString(v.Base10Value, 10)
		if !ok {
			violation(node, "malformed bigint value %q", v.Base10Value)
		}
		if v.Negative {
			n.Neg(n)
		}
		return converted(&model.LiteralType{Value: n})
	case string, float64, bool:
		return converted(&model.LiteralType{Value: v})
	case int:
		return converted(&model.LiteralType{Value: float64(v)})
	default:
		violation(node, "unexpected literal value %T", v)
	}
	return result{}
}

// parseNumber evaluates a numeric literal's source text, including
// separators and 0x, 0o and 0b prefixes.
func parseNumber(node oracle.Node, text string) float64 {
	clean := strings.ReplaceAll(text, "_", "")
	if len(clean) > 1 && clean[0] == '0' && strings.ContainsAny(clean[1:2], "xXoObB") {
		n, ok := new(big.Int).SetString(clean, 0)
		if !ok {
			violation(node, "malformed numeric literal %q", text)
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f
	}
	f, err := strconv.ParseFloat(clean, 64)
	// Out-of-range literals such as 1e400 evaluate to ±Infinity.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		violation(node, "malformed numeric literal %q", text)
	}
	return f
}

func parseBigInt(node oracle.Node, text string) *big.Int {
	clean := strings.TrimSuffix(text, "n")
	n, ok := new(big.Int).SetString(clean, 0)
	if !ok {
		violation(node, "malformed bigint literal %q", text)
	}
	return n
}
