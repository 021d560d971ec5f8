package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, cmd subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(append([]string{"-plain"}, args...)))
	return cmd.Execute(context.Background(), fs), buf.String()
}

func TestSIPCommand(t *testing.T) {
	status, out := run(t, &sipCmd{}, "-monthly", "5000", "-rate", "12", "-years", "3", "-schedule")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "₹5,000 a month")
	assert.Contains(t, out, "a month")
	assert.Contains(t, out, "| Invested | ₹180,000 |")
	assert.Contains(t, out, "| Future value |")
	assert.Contains(t, out, "## Growth by year")
	assert.Contains(t, out, "| 3 | ₹180,000 |")
}

func TestEMICommandSchedule(t *testing.T) {
	status, out := run(t, &emiCmd{}, "-principal", "100000", "-rate", "10", "-years", "2", "-schedule")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "# Loan of ₹100,000")
	assert.Contains(t, out, "| Monthly EMI |")
	assert.Contains(t, out, "| 2 |")
	assert.NotContains(t, out, "| 3 |")
}

func TestRetirementAndGoalCommands(t *testing.T) {
	status, out := run(t, &retirementCmd{}, "-age", "30", "-retire-at", "60")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "# Retirement in 30 years")
	assert.Contains(t, out, "| Required corpus |")

	status, out = run(t, &goalCmd{}, "-target", "1000000", "-years", "5")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "# ₹1,000,000 in 5 years")
	assert.Contains(t, out, "in 5 years")
	assert.Contains(t, out, "| Monthly SIP needed |")
}

func TestInvalidInputIsUsageError(t *testing.T) {
	tests := []struct {
		cmd  subcommands.Command
		args []string
	}{
		{&sipCmd{}, []string{"-years", "0"}},
		{&emiCmd{}, []string{"-rate", "-1"}},
		{&retirementCmd{}, []string{"-age", "60", "-retire-at", "30"}},
		{&goalCmd{}, []string{"-years", "0"}},
	}
	for _, tt := range tests {
		status, out := run(t, tt.cmd, tt.args...)
		assert.Equal(t, subcommands.ExitUsageError, status, tt.cmd.Name())
		assert.Empty(t, out)
	}
}

func TestAmountFlags(t *testing.T) {
	c := &sipCmd{}
	fs := flag.NewFlagSet("sip", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.SetFlags(fs)
	assert.Equal(t, int64(500000), c.monthly.Cents)

	require.NoError(t, fs.Parse([]string{"-monthly", "2500,50"}))
	assert.Equal(t, int64(250050), c.monthly.Cents)

	for _, bad := range []string{"0", "-5", "abc", "100000000000000000000"} {
		fs := flag.NewFlagSet("sip", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		(&sipCmd{}).SetFlags(fs)
		assert.Error(t, fs.Parse([]string{"-monthly", bad}), bad)
	}
}

func TestLearnCommand(t *testing.T) {
	status, out := run(t, &learnCmd{})
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "`personal-finance`")
	assert.Equal(t, 4, strings.Count(out, "\n- "))

	status, out = run(t, &learnCmd{}, "stock-market")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.True(t, strings.HasPrefix(out, "# "))

	status, _ = run(t, &learnCmd{}, "crypto")
	assert.Equal(t, subcommands.ExitFailure, status)
}
