// Package validation turns raw phone input into a classified Result.
//
// The pipeline is normalize → international-prefix policy → region resolution →
// numbering plan parse → numbering plan validity. Every input, however malformed,
// yields a Result; expected failures are never returned as errors.
package validation

import (
	"checkout_phone_backend/internal/phonevalidation/policy"
	"checkout_phone_backend/platform/phone"
)

// Engine validates phone numbers against a numbering plan. It holds no mutable
// state and is safe for concurrent use when the plan is.
type Engine struct {
	plan phone.NumberingPlan
}

// NewEngine creates an Engine backed by plan.
func NewEngine(plan phone.NumberingPlan) *Engine {
	return &Engine{plan: plan}
}

// Validate checks raw input. regionHint is an optional ISO code from caller
// context (e.g. the billing country); it is ignored for '+' prefixed numbers.
func (e *Engine) Validate(raw string, regionHint string, p policy.Policy) Result {
	normalized := phone.Normalize(raw)
	if normalized == "" {
		return Failure(KindEmpty)
	}

	international := phone.IsInternational(normalized)
	if p.RequiresInternationalPrefix() && !international {
		return Failure(KindMissingInternationalPrefix)
	}

	region := ""
	if !international {
		region = p.ResolveRegion(regionHint)
	}

	return e.parse(normalized, region)
}

// parse isolates the numbering plan; a panicking plan is an unknown parse failure.
func (e *Engine) parse(normalized, region string) (result Result) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = Failure(KindUnknownParseFailure)
		}
	}()

	number, err := e.plan.Parse(normalized, region)
	if err != nil {
		return Failure(kindFromParseError(phone.ParseErrorKindOf(err)))
	}

	if !e.plan.IsValidNumber(number) {
		return Failure(KindNotValid)
	}

	return Success(number)
}
