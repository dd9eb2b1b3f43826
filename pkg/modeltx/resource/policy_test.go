package resource_test

import (
	"testing"

	"github.com/modeltx/modeltx/pkg/modeltx/resource"
)

func TestDefaultPolicy(t *testing.T) {
	policy := resource.NewDefaultPolicy("unjoined_walls")

	cases := []struct {
		name string
		note resource.FailureNote
		want resource.Decision
	}{
		{
			name: "warnings are suppressed",
			note: resource.FailureNote{Severity: resource.SeverityWarning, Code: "duplicate_mark"},
			want: resource.DecisionSuppress,
		},
		{
			name: "resolvable errors are resolved",
			note: resource.FailureNote{Severity: resource.SeverityError, Code: "unjoined_walls"},
			want: resource.DecisionResolve,
		},
		{
			name: "unknown errors fail",
			note: resource.FailureNote{Severity: resource.SeverityError, Code: "constraint_violation"},
			want: resource.DecisionFail,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.Classify(tc.note); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.note, got, tc.want)
			}
		})
	}
}
