package hcl

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translateNumber accepts a number or a numeric string (environment values
// are always strings) and returns nil when the attribute was not set.
func translateNumber(v cty.Value) (*int, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	if v.Type() == cty.String {
		v = cty.StringVal(strings.TrimSpace(v.AsString()))
	}

	num, err := convert.Convert(v, cty.Number)
	if err != nil {
		return nil, fmt.Errorf("expected a number, got %s: %w", v.Type().FriendlyName(), err)
	}

	var n int
	if err := gocty.FromCtyValue(num, &n); err != nil {
		return nil, fmt.Errorf("expected a whole number: %w", err)
	}
	return &n, nil
}
