package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"finovo/internal/content"
	"finovo/internal/core"
	"finovo/internal/finmath"

	"github.com/google/subcommands"
)

var commands = []subcommands.Command{
	&sipCmd{},
	&emiCmd{},
	&retirementCmd{},
	&goalCmd{},
}

var stdout io.Writer = os.Stdout

// output holds the flags every command shares.
type output struct {
	plain bool
	width int
}

func (o *output) setFlags(f *flag.FlagSet) {
	f.BoolVar(&o.plain, "plain", false, "print markdown without terminal styling")
	f.IntVar(&o.width, "width", 80, "wrap rendered output at this width")
}

func (o *output) print(md string) subcommands.ExitStatus {
	if o.plain {
		fmt.Fprint(stdout, md)
		return subcommands.ExitSuccess
	}
	out, err := content.RenderTerminal(md, o.width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprint(stdout, out)
	return subcommands.ExitSuccess
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, finmath.ErrValidation) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// rupees formats a result to the nearest whole rupee.
func rupees(v float64) string {
	return core.MoneyFromFloat(v).Rounded()
}

// amount is a flag.Value for positive rupee amounts such as 5000 or 12,50.
type amount struct {
	core.Money
}

func rupeesFlag(cents int64) amount {
	return amount{core.Money{Cents: cents}}
}

func (a *amount) Set(s string) error {
	m, err := core.ParseAmount(s)
	if err != nil {
		return fmt.Errorf("%q is not a positive amount", s)
	}
	a.Money = m
	return nil
}

func (a *amount) String() string {
	return a.Decimal().String()
}

type sipCmd struct {
	output
	monthly  amount
	rate     float64
	years    int
	schedule bool
}

func (*sipCmd) Name() string     { return "sip" }
func (*sipCmd) Synopsis() string { return "project the value of a monthly SIP" }
func (*sipCmd) Usage() string {
	return `finovo-calc sip -monthly <amount> -rate <pct> -years <n> [-schedule]

  Projects a systematic investment plan with monthly compounding.
`
}

func (c *sipCmd) SetFlags(f *flag.FlagSet) {
	c.output.setFlags(f)
	c.monthly = rupeesFlag(500000)
	f.Var(&c.monthly, "monthly", "monthly contribution")
	f.Float64Var(&c.rate, "rate", 12, "expected annual return in percent")
	f.IntVar(&c.years, "years", 10, "investment duration in years")
	f.BoolVar(&c.schedule, "schedule", false, "include the year-by-year growth table")
}

func (c *sipCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	monthly := c.monthly.Float()
	res, err := finmath.ComputeSIP(monthly, c.rate, c.years)
	if err != nil {
		return fail(err)
	}
	var sched []finmath.SIPYear
	if c.schedule {
		if sched, err = finmath.ComputeSIPSchedule(monthly, c.rate, c.years); err != nil {
			return fail(err)
		}
	}
	return c.print(sipReport(monthly, c.rate, c.years, res, sched))
}

func sipReport(monthly, rate float64, years int, res finmath.SIPResult, sched []finmath.SIPYear) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# SIP of %s a month\n\n", rupees(monthly))
	fmt.Fprintf(&b, "%d years at %.2f%% a year.\n\n", years, rate)
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Invested | %s |\n", rupees(res.TotalInvested))
	fmt.Fprintf(&b, "| Returns | %s |\n", rupees(res.TotalReturns))
	fmt.Fprintf(&b, "| Future value | %s |\n", rupees(res.FutureValue))
	if len(sched) > 0 {
		b.WriteString("\n## Growth by year\n\n| Year | Invested | Value | Returns |\n|---:|---:|---:|---:|\n")
		for _, y := range sched {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", y.Year, rupees(y.Invested), rupees(y.Value), rupees(y.Returns))
		}
	}
	return b.String()
}

type emiCmd struct {
	output
	principal amount
	rate      float64
	years     int
	schedule  bool
}

func (*emiCmd) Name() string     { return "emi" }
func (*emiCmd) Synopsis() string { return "compute a loan's monthly instalment" }
func (*emiCmd) Usage() string {
	return `finovo-calc emi -principal <amount> -rate <pct> -years <n> [-schedule]

  Computes the equated monthly instalment and the total interest paid.
`
}

func (c *emiCmd) SetFlags(f *flag.FlagSet) {
	c.output.setFlags(f)
	c.principal = rupeesFlag(100000000)
	f.Var(&c.principal, "principal", "loan amount")
	f.Float64Var(&c.rate, "rate", 8.5, "annual interest rate in percent")
	f.IntVar(&c.years, "years", 20, "loan tenure in years")
	f.BoolVar(&c.schedule, "schedule", false, "include the yearly amortization table")
}

func (c *emiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	principal := c.principal.Float()
	res, err := finmath.ComputeEMI(principal, c.rate, c.years)
	if err != nil {
		return fail(err)
	}
	var rows []finmath.AmortizationRow
	if c.schedule {
		if rows, err = finmath.ComputeAmortization(principal, c.rate, c.years); err != nil {
			return fail(err)
		}
	}
	return c.print(emiReport(principal, c.rate, c.years, res, rows))
}

func emiReport(principal, rate float64, years int, res finmath.EMIResult, rows []finmath.AmortizationRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Loan of %s\n\n", rupees(principal))
	fmt.Fprintf(&b, "%d years at %.2f%% a year.\n\n", years, rate)
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Monthly EMI | %s |\n", rupees(res.MonthlyEMI))
	fmt.Fprintf(&b, "| Total interest | %s |\n", rupees(res.TotalInterest))
	fmt.Fprintf(&b, "| Total payable | %s |\n", rupees(res.TotalPayable))
	if len(rows) > 0 {
		b.WriteString("\n## Amortization by year\n\n| Year | Principal | Interest | Balance |\n|---:|---:|---:|---:|\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", r.Year, rupees(r.PrincipalPaid), rupees(r.InterestPaid), rupees(r.ClosingBalance))
		}
	}
	return b.String()
}

type retirementCmd struct {
	output
	age       int
	retireAt  int
	expenses  amount
	inflation float64
	ret       float64
}

func (*retirementCmd) Name() string     { return "retirement" }
func (*retirementCmd) Synopsis() string { return "size a retirement corpus and the SIP that builds it" }
func (*retirementCmd) Usage() string {
	return `finovo-calc retirement -age <n> -retire-at <n> -expenses <amount> [-inflation <pct>] [-return <pct>]

  Inflates today's monthly expenses to the retirement date and sizes the
  corpus and the monthly SIP needed to reach it.
`
}

func (c *retirementCmd) SetFlags(f *flag.FlagSet) {
	c.output.setFlags(f)
	f.IntVar(&c.age, "age", 30, "current age")
	f.IntVar(&c.retireAt, "retire-at", 60, "retirement age")
	c.expenses = rupeesFlag(5000000)
	f.Var(&c.expenses, "expenses", "monthly expenses today")
	f.Float64Var(&c.inflation, "inflation", 6, "expected inflation in percent")
	f.Float64Var(&c.ret, "return", 12, "expected annual return in percent")
}

func (c *retirementCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	plan, err := finmath.ComputeRetirementPlan(c.age, c.retireAt, c.expenses.Float(), c.inflation, c.ret)
	if err != nil {
		return fail(err)
	}
	return c.print(retirementReport(plan))
}

func retirementReport(p finmath.RetirementPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Retirement in %d years\n\n", p.YearsToRetirement)
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Monthly expenses at retirement | %s |\n", rupees(p.FutureMonthlyExpenses))
	fmt.Fprintf(&b, "| Required corpus | %s |\n", rupees(p.RequiredCorpus))
	fmt.Fprintf(&b, "| Monthly SIP needed | %s |\n", rupees(p.RequiredMonthlySIP))
	return b.String()
}

type goalCmd struct {
	output
	target amount
	years  int
	ret    float64
}

func (*goalCmd) Name() string     { return "goal" }
func (*goalCmd) Synopsis() string { return "find the monthly SIP that reaches a target" }
func (*goalCmd) Usage() string {
	return `finovo-calc goal -target <amount> -years <n> [-return <pct>]

  Computes the monthly investment needed to reach a target amount.
`
}

func (c *goalCmd) SetFlags(f *flag.FlagSet) {
	c.output.setFlags(f)
	c.target = rupeesFlag(100000000)
	f.Var(&c.target, "target", "target amount")
	f.IntVar(&c.years, "years", 5, "years until the goal")
	f.Float64Var(&c.ret, "return", 12, "expected annual return in percent")
}

func (c *goalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	target := c.target.Float()
	plan, err := finmath.ComputeGoalSIP(target, c.years, c.ret)
	if err != nil {
		return fail(err)
	}
	return c.print(goalReport(target, c.years, plan))
}

func goalReport(target float64, years int, p finmath.GoalPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s in %d years\n\n", rupees(target), years)
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Monthly SIP needed | %s |\n", rupees(p.RequiredMonthlySIP))
	fmt.Fprintf(&b, "| Total invested | %s |\n", rupees(p.TotalInvested))
	fmt.Fprintf(&b, "| Expected gains | %s |\n", rupees(p.ExpectedGains))
	return b.String()
}

type learnCmd struct {
	output
}

func (*learnCmd) Name() string     { return "learn" }
func (*learnCmd) Synopsis() string { return "read a personal finance topic" }
func (*learnCmd) Usage() string {
	return `finovo-calc learn [topic]

  Without a topic, lists the available topics.
`
}

func (c *learnCmd) SetFlags(f *flag.FlagSet) {
	c.output.setFlags(f)
}

func (c *learnCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		topics, err := content.Topics()
		if err != nil {
			return fail(err)
		}
		var b strings.Builder
		b.WriteString("# Topics\n\n")
		for _, t := range topics {
			fmt.Fprintf(&b, "- **%s** (`%s`): %s\n", t.Title, t.Slug, t.Summary)
		}
		return c.print(b.String())
	}

	slug := f.Arg(0)
	if c.plain {
		src, err := content.Markdown(slug)
		if err != nil {
			return fail(err)
		}
		fmt.Fprint(stdout, string(src))
		return subcommands.ExitSuccess
	}
	out, err := content.Terminal(slug, c.width)
	if err != nil {
		return fail(err)
	}
	fmt.Fprint(stdout, out)
	return subcommands.ExitSuccess
}
