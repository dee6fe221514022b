package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ErrRateLimit{Err: errors.New("429")}, "rate limiting"},
		{fmt.Errorf("call: %w", &ErrInvalidResponse{Err: errors.New("bad json")}), "could not be understood"},
		{&ErrProviderUnavailable{}, "unreachable"},
		{&ErrMaxTokensExceeded{}, "fewer questions"},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), "too long"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		if got := Describe(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("Describe(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}
