package assert

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/rsharma/restlab/internal/models"
	"github.com/tidwall/gjson"
)

// undefinedValue is reported as the actual value when a target could not
// be extracted from the response.
const undefinedValue = "undefined"

// Engine evaluates declarative assertions against a captured response
type Engine struct{}

// NewEngine creates a new assertion engine
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs every spec against the response independently; one failing
// assertion never stops evaluation of the rest. All results are returned
// for reporting.
func (e *Engine) Evaluate(resp *models.CapturedResponse, specs []models.AssertionSpec, durationMs int64) []models.AssertionResult {
	results := make([]models.AssertionResult, 0, len(specs))

	for _, spec := range specs {
		actual, found, ok := e.extract(resp, spec, durationMs)

		display := actual
		if !found {
			display = undefinedValue
		}

		results = append(results, models.AssertionResult{
			Name:     spec.Name,
			Passed:   ok && e.compare(actual, found, spec.Comparator, spec.Expected),
			Expected: spec.Expected,
			Actual:   display,
		})
	}

	return results
}

// OverallPassed reports the outcome of a whole run: the status must be in
// [200, 400) and every assertion must have passed. An empty result list is
// vacuously all-passed.
func OverallPassed(status int, results []models.AssertionResult) bool {
	if status < 200 || status >= 400 {
		return false
	}

	for _, r := range results {
		if !r.Passed {
			return false
		}
	}

	return true
}

// extract pulls the target value out of the response. found reports whether
// the value exists; ok reports whether the target could be evaluated at all.
// A body path against a non-JSON body is not evaluable, so every comparator
// fails on it, null and defined included.
func (e *Engine) extract(resp *models.CapturedResponse, spec models.AssertionSpec, durationMs int64) (actual string, found, ok bool) {
	switch spec.Target {
	case models.TargetStatus:
		return strconv.Itoa(resp.Status), true, true
	case models.TargetDuration:
		return strconv.FormatInt(durationMs, 10), true, true
	case models.TargetHeader:
		// Headers are case-insensitive
		for key, vals := range resp.Headers {
			if strings.EqualFold(key, spec.Key) && len(vals) > 0 {
				return vals[0], true, true
			}
		}
		return "", false, true
	case models.TargetBodyPath:
		if !gjson.Valid(resp.Body) {
			return "", false, false
		}
		result := gjson.Get(resp.Body, spec.Key)
		if !result.Exists() {
			return "", false, true
		}
		if result.Type == gjson.Null {
			return "null", true, true
		}
		return result.String(), true, true
	default:
		return "", false, false
	}
}

// compare applies the comparator. equals and contains are structural over
// text and parsed JSON, greaterThan/lessThan are numeric, defined/null are
// existence checks.
func (e *Engine) compare(actual string, found bool, comparator, expected string) bool {
	switch comparator {
	case models.CompEquals:
		if !found {
			return false
		}
		if actual == expected {
			return true
		}
		return jsonEqual(actual, expected)
	case models.CompContains:
		return found && strings.Contains(actual, expected)
	case models.CompGreaterThan:
		return found && numericCompare(actual, expected) > 0
	case models.CompLessThan:
		return found && numericCompare(actual, expected) < 0
	case models.CompDefined:
		return found
	case models.CompNull:
		return !found || actual == "null"
	default:
		return false
	}
}

// jsonEqual compares two values as parsed JSON documents
func jsonEqual(a, b string) bool {
	var av, bv interface{}
	if err := json.Unmarshal([]byte(a), &av); err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(b), &bv); err != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}

// numericCompare compares two values as floats.
// Returns: -1 if a < b, 0 if a == b or either is not numeric, 1 if a > b.
func numericCompare(a, b string) int {
	aFloat, aErr := strconv.ParseFloat(a, 64)
	bFloat, bErr := strconv.ParseFloat(b, 64)

	if aErr != nil || bErr != nil {
		return 0
	}

	if aFloat < bFloat {
		return -1
	} else if aFloat > bFloat {
		return 1
	}
	return 0
}
