// Package services holds the write-side orchestration: transaction writes
// with budget alert evaluation and event publication.
//
// This file implements the strategy for resolving which calendar window a
// budget period covers. Each period type (weekly, monthly, yearly) has its
// own resolver that anchors the window around a transaction date.
package services

import (
	"fmt"
	"time"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
)

// WindowResolver is the strategy interface for budget period windows.
type WindowResolver interface {
	// Window returns the half-open interval [start, end) of the budget
	// period containing the given day.
	Window(d core.Date) (start, end time.Time)
}

// WeeklyWindow resolves Monday-based calendar weeks.
type WeeklyWindow struct{}

func (WeeklyWindow) Window(d core.Date) (time.Time, time.Time) {
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	start := time.Date(d.Year(), time.Month(d.Month()), d.Day()-offset, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

// MonthlyWindow resolves calendar months.
type MonthlyWindow struct{}

func (MonthlyWindow) Window(d core.Date) (time.Time, time.Time) {
	start := time.Date(d.Year(), time.Month(d.Month()), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// YearlyWindow resolves calendar years.
type YearlyWindow struct{}

func (YearlyWindow) Window(d core.Date) (time.Time, time.Time) {
	start := time.Date(d.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// windowResolvers maps budget periods to their resolvers.
var windowResolvers = map[core.BudgetPeriod]WindowResolver{
	core.PeriodWeekly:  WeeklyWindow{},
	core.PeriodMonthly: MonthlyWindow{},
	core.PeriodYearly:  YearlyWindow{},
}

// GetWindowResolver returns the resolver for a budget period. Returns an
// error if the period is not supported.
func GetWindowResolver(period core.BudgetPeriod) (WindowResolver, error) {
	resolver, ok := windowResolvers[period]
	if !ok {
		return nil, fmt.Errorf("unknown budget period: %s", period)
	}
	return resolver, nil
}

// RegisterWindowResolver registers a resolver for a new period type.
func RegisterWindowResolver(period core.BudgetPeriod, resolver WindowResolver) {
	windowResolvers[period] = resolver
}

// inWindow reports whether the day falls inside [start, end).
func inWindow(d core.Date, start, end time.Time) bool {
	return !d.Before(start) && d.Before(end)
}
