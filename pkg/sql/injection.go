// Package sql screens request values that end up shaping generated SQL.
package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a request value libinjection flagged.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string // Name of the parameter that failed the check
	ParamValue  string // The value that was checked
}

// CheckParameterForInjection runs libinjection over a single value.
// Returns nil when the value looks clean.
//
// Example:
//
//	result := CheckParameterForInjection("sort", "name,asc")
//	// result == nil
//
//	result = CheckParameterForInjection("sort", "name; DROP TABLE intent--")
//	// result.IsSQLi == true
func CheckParameterForInjection(paramName, value string) *InjectionCheckResult {
	if value == "" {
		return nil
	}
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		ParamName:   paramName,
		ParamValue:  value,
	}
}

// CheckAllValues screens every value of a repeated query parameter and
// returns the first flagged one, or nil.
func CheckAllValues(paramName string, values []string) *InjectionCheckResult {
	for _, v := range values {
		if result := CheckParameterForInjection(paramName, v); result != nil {
			return result
		}
	}
	return nil
}
