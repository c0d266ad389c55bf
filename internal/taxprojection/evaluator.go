package taxprojection

import (
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

var labelToken = regexp.MustCompile(`\{([^{}]+)\}`)

// FormulaRow is one projection line as the evaluator consumes it.
type FormulaRow struct {
	Label   string
	Formula string
}

// RowResult is one evaluated line. Failed rows carry value 0.
type RowResult struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Evaluate runs the rows strictly in the order given. Each {Label} token is
// substituted from a running context seeded with baseContext and extended
// with every row's own result, so later rows can reference earlier ones.
// A row that fails to evaluate logs a warning and yields 0; one bad formula
// never aborts the rest of the projection.
func Evaluate(rows []FormulaRow, baseContext map[string]float64, logger *zap.Logger) []RowResult {
	if logger == nil {
		logger = zap.L().Named("taxprojection.evaluator")
	}

	context := make(map[string]float64, len(baseContext)+len(rows))
	for k, v := range baseContext {
		context[k] = v
	}

	results := make([]RowResult, len(rows))
	for i, row := range rows {
		substituted := labelToken.ReplaceAllStringFunc(row.Formula, func(token string) string {
			label := token[1 : len(token)-1]
			v, ok := context[label]
			if !ok {
				// Unknown labels stay verbatim; the character filter
				// strips them next, normally breaking the expression.
				return token
			}
			return "(" + strconv.FormatFloat(v, 'f', -1, 64) + ")"
		})

		value, err := evalArithmetic(sanitizeExpression(substituted))
		if err != nil {
			logger.Warn("tax formula evaluation failed",
				zap.String("label", row.Label),
				zap.String("formula", row.Formula),
				zap.Error(err),
			)
			value = 0
		}

		results[i] = RowResult{Label: row.Label, Value: value}
		context[row.Label] = value
	}
	return results
}
