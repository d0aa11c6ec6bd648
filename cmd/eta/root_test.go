package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestETACommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--start", "2023-12-01"}, "2023-12-04"},
		{[]string{"--start", "2024-12-31", "--days", "2"}, "2025-01-02"},
		{[]string{"--start", "2023-12-01", "--rule", "weekend"}, "2023-12-05"},
		{[]string{"--start", "2024-12-31", "--rule", "weekend+holidays", "--holiday", "2025-01-01", "--holiday", "2025-01-02"}, "2025-01-06"},
		{[]string{"--start", "2023-12-01", "--days", "0"}, "2023-12-01"},
	}
	for _, tt := range tests {
		got, err := run(t, tt.args...)
		require.NoError(t, err, tt.args)
		require.Equal(t, tt.want, got, tt.args)
	}
}

func TestETACommandDefaultsToToday(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2023, time.December, 1, 18, 30, 0, 0, time.UTC) }
	defer func() { now = orig }()

	got, err := run(t, "--days", "1", "--rule", "never")
	require.NoError(t, err)
	require.Equal(t, "2023-12-02", got)
}

func TestETACommandErrors(t *testing.T) {
	_, err := run(t, "--start", "12/01/2023")
	require.Error(t, err)

	_, err = run(t, "--start", "2023-12-01", "--days", "-1")
	require.Error(t, err)

	_, err = run(t, "--start", "2023-12-01", "--rule", "moonday")
	require.ErrorContains(t, err, "unknown exclusion rule")

	_, err = run(t, "--holiday", "2025-02-30")
	require.Error(t, err)
}

func TestRulesCommand(t *testing.T) {
	got, err := run(t, "rules")
	require.NoError(t, err)
	require.Equal(t, []string{"never", "weekend", "delivery", "holidays", "us-federal"}, strings.Split(got, "\n"))
}
