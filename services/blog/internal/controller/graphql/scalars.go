package graphql

import (
	"encoding/json"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// jsonScalar carries opaque documents such as post content and social links.
var jsonScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "Arbitrary JSON value",
	Serialize:   serializeJSON,
	ParseValue: func(value interface{}) interface{} {
		return value
	},
	ParseLiteral: parseJSONLiteral,
})

func serializeJSON(value interface{}) interface{} {
	switch v := value.(type) {
	case json.RawMessage:
		if len(v) == 0 {
			return nil
		}
		var out interface{}
		if err := json.Unmarshal(v, &out); err != nil {
			return nil
		}
		return out
	case []byte:
		return serializeJSON(json.RawMessage(v))
	}
	return value
}

func parseJSONLiteral(value ast.Value) interface{} {
	switch v := value.(type) {
	case *ast.StringValue:
		return v.Value
	case *ast.BooleanValue:
		return v.Value
	case *ast.EnumValue:
		return v.Value
	case *ast.IntValue:
		if n, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return n
		}
		return nil
	case *ast.FloatValue:
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			return f
		}
		return nil
	case *ast.ListValue:
		out := make([]interface{}, 0, len(v.Values))
		for _, item := range v.Values {
			out = append(out, parseJSONLiteral(item))
		}
		return out
	case *ast.ObjectValue:
		out := make(map[string]interface{}, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Name.Value] = parseJSONLiteral(f.Value)
		}
		return out
	}
	return nil
}
