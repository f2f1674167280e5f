package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  logrus.Level
	}{
		{input: "debug", want: logrus.DebugLevel},
		{input: "DEBUG", want: logrus.DebugLevel},
		{input: "error", want: logrus.ErrorLevel},
		{input: "fatal", want: logrus.FatalLevel},
		{input: "trace", want: logrus.TraceLevel},
		{input: "warn", want: logrus.WarnLevel},
		{input: "info", want: logrus.InfoLevel},
		{input: "", want: logrus.InfoLevel},
		{input: "nonsense", want: logrus.InfoLevel},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := GetLevel(tc.input); got != tc.want {
				t.Fatalf("expected level %v for %q, got %v", tc.want, tc.input, got)
			}
		})
	}
}
