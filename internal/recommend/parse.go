package recommend

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var outputSchema string

// parseModelOutput turns the model's raw text into a loosely-typed document.
// The schema pass only rejects structure the sanitizer cannot repair: a
// non-object top level, or a recommendations list holding non-objects.
// Field-level problems are left for the sanitizer.
func parseModelOutput(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(outputSchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return nil, fmt.Errorf("validate model response: %w", err)
	}

	if !result.Valid() {
		return nil, fmt.Errorf("model response failed structural check: %s", result.Errors()[0])
	}

	return data, nil
}

// extractJSON strips markdown code fences the model may wrap around its JSON.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				result = append(result, s)
			}
		}
	}
	return result
}

func coerceMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
