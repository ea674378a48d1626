package pipelineyaml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowforge/flowcore/pipeline"
)

// NewGate returns a StepFn that evaluates expr against the incoming
// Result's context and, if true, activates targets. It is sugar over
// Result.Activate — the grammar (equality, comparison, contains, AND/OR/
// NOT) reads context fields directly rather than substituting into a
// string first.
func NewGate(expr string, targets ...string) pipeline.StepFn {
	return func(r pipeline.Result) pipeline.Result {
		ok, err := evaluateGate(expr, r)
		if err != nil || !ok {
			return r
		}
		return r.Activate(targets...)
	}
}

func evaluateGate(expr string, r pipeline.Result) (bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true, nil
	}

	if idx := findLogicalOp(expr, " OR "); idx >= 0 {
		left, err := evaluateGate(expr[:idx], r)
		if err != nil {
			return false, err
		}
		if left {
			return true, nil
		}
		return evaluateGate(expr[idx+4:], r)
	}

	if idx := findLogicalOp(expr, " AND "); idx >= 0 {
		left, err := evaluateGate(expr[:idx], r)
		if err != nil {
			return false, err
		}
		if !left {
			return false, nil
		}
		return evaluateGate(expr[idx+5:], r)
	}

	if strings.HasPrefix(expr, "NOT ") {
		inner, err := evaluateGate(expr[4:], r)
		return !inner, err
	}
	if strings.HasPrefix(expr, "!") {
		inner, err := evaluateGate(expr[1:], r)
		return !inner, err
	}
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		return evaluateGate(expr[1:len(expr)-1], r)
	}

	return evaluateComparison(expr, r)
}

// findLogicalOp finds op's position at paren-depth 0, outside quotes, or
// -1 if absent.
func findLogicalOp(expr, op string) int {
	depth := 0
	var quote byte
	for i := 0; i <= len(expr)-len(op); i++ {
		c := expr[i]
		if quote != 0 {
			if c == quote && (i == 0 || expr[i-1] != '\\') {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && quote == 0 && strings.HasPrefix(expr[i:], op) {
			return i
		}
	}
	return -1
}

var comparisonOps = []struct {
	op   string
	eval func(left, right float64) bool
}{
	{">=", func(l, r float64) bool { return l >= r }},
	{"<=", func(l, r float64) bool { return l <= r }},
	{">", func(l, r float64) bool { return l > r }},
	{"<", func(l, r float64) bool { return l < r }},
}

func evaluateComparison(expr string, r pipeline.Result) (bool, error) {
	expr = strings.TrimSpace(expr)

	if idx := strings.Index(expr, "=="); idx >= 0 {
		return fmt.Sprint(resolveOperand(expr[:idx], r)) == fmt.Sprint(resolveOperand(expr[idx+2:], r)), nil
	}
	if idx := strings.Index(expr, "!="); idx >= 0 {
		return fmt.Sprint(resolveOperand(expr[:idx], r)) != fmt.Sprint(resolveOperand(expr[idx+2:], r)), nil
	}
	if idx := strings.Index(expr, " contains "); idx >= 0 {
		left := fmt.Sprint(resolveOperand(expr[:idx], r))
		right := fmt.Sprint(resolveOperand(expr[idx+10:], r))
		return strings.Contains(left, right), nil
	}
	for _, cmp := range comparisonOps {
		if idx := strings.Index(expr, cmp.op); idx >= 0 {
			left, right := expr[:idx], expr[idx+len(cmp.op):]
			lv, err := toFloat(resolveOperand(left, r))
			if err != nil {
				return false, &GateParseError{Expr: expr, Message: err.Error()}
			}
			rv, err := toFloat(resolveOperand(right, r))
			if err != nil {
				return false, &GateParseError{Expr: expr, Message: err.Error()}
			}
			return cmp.eval(lv, rv), nil
		}
	}

	return truthy(resolveOperand(expr, r)), nil
}

// resolveOperand resolves a bare token against the Result's context if it
// looks like an identifier, otherwise treats it as a literal (quoted
// string, number, or boolean).
func resolveOperand(token string, r pipeline.Result) any {
	token = strings.TrimSpace(token)
	if len(token) >= 2 {
		if (token[0] == '"' && token[len(token)-1] == '"') || (token[0] == '\'' && token[len(token)-1] == '\'') {
			return token[1 : len(token)-1]
		}
	}
	switch token {
	case "true":
		return true
	case "false":
		return false
	case "null", "nil", "none":
		return nil
	}
	if v, err := strconv.ParseFloat(token, 64); err == nil {
		return v
	}
	if v, ok := r.ContextValue(token); ok {
		return v
	}
	return token
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%v is not a number", v)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		switch strings.ToLower(t) {
		case "", "false", "0", "no", "null", "nil", "none":
			return false
		}
		return true
	case float64:
		return t != 0
	default:
		return true
	}
}
