package providers

import (
	"errors"
	"testing"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]ErrorType{
		"insufficient_quota": ErrorQuota,
		"gemini embedding error 429: RESOURCE_EXHAUSTED: quota exceeded": ErrorQuota,
		"429 rate":                ErrorRate,
		"context too long":        ErrorContext,
		"timeout":                 ErrorTransient,
		"the model is overloaded": ErrorTransient,
		"bad request":             ErrorPermanent,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); got != want {
			t.Fatalf("classify %q: got %s want %s", msg, got, want)
		}
	}
}
