// Package dates turns natural-language date expressions into calendar dates.
// Every date-scoped query goes through here before touching the corpus.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/errors"
)

// MaxRelativeDays bounds "N days ago" style expressions.
const MaxRelativeDays = 365

const supportedFormats = "relative: today, yesterday, 3 days ago, 今天, 昨天, 前天, 大前天, 3天前; " +
	"weekday: last monday, this friday, 上周一, 本周三; " +
	"absolute: 2025-10-10, 2025年10月10日, 10月10日, 2025/10/10, 10/10"

// Fixed relative-day vocabulary, source language and English.
var relativeDays = map[string]int{
	"今天":        0,
	"昨天":        1,
	"前天":        2,
	"大前天":       3,
	"today":     0,
	"yesterday": 1,
}

var cnWeekdays = map[string]int{
	"一": 0, "二": 1, "三": 2, "四": 3,
	"五": 4, "六": 5, "日": 6, "天": 6,
}

var enWeekdays = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

var (
	cnDaysAgoRe  = regexp.MustCompile(`^(\d+)\s*天前$`)
	enDaysAgoRe  = regexp.MustCompile(`^(\d+)\s*days?\s+ago$`)
	cnWeekdayRe  = regexp.MustCompile(`^(上|本)周([一二三四五六日天])$`)
	enWeekdayRe  = regexp.MustCompile(`^(last|this)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)$`)
	isoDateRe    = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	cnDateRe     = regexp.MustCompile(`^(?:(\d{4})年)?(\d{1,2})月(\d{1,2})日$`)
	slashDateRe  = regexp.MustCompile(`^(?:(\d{4})/)?(\d{1,2})/(\d{1,2})$`)
	folderNameRe = regexp.MustCompile(`^(\d{4})年(\d{2})月(\d{2})日$`)
)

// Resolver resolves date expressions against an injected clock.
type Resolver struct {
	now func() time.Time
}

// NewResolver creates a resolver on the system clock.
func NewResolver() *Resolver {
	return NewResolverWithClock(time.Now)
}

// NewResolverWithClock creates a resolver with a fixed notion of "now".
func NewResolverWithClock(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

// Today returns the current calendar date at midnight.
func (r *Resolver) Today() time.Time {
	return truncate(r.now())
}

// Resolve parses a date expression. Resolution order: fixed relative
// vocabulary, "N days ago", last/this weekday, ISO, CN 月日, slash.
// The first matching form wins.
func (r *Resolver) Resolve(expression string) (time.Time, error) {
	expr := strings.ToLower(strings.TrimSpace(expression))
	if expr == "" {
		return time.Time{}, errors.New(errors.InvalidParameter,
			"date expression is empty",
			"provide an expression such as: today, yesterday, 2025-10-10")
	}

	if days, ok := relativeDays[expr]; ok {
		return r.Today().AddDate(0, 0, -days), nil
	}

	for _, re := range []*regexp.Regexp{cnDaysAgoRe, enDaysAgoRe} {
		if m := re.FindStringSubmatch(expr); m != nil {
			days, err := strconv.Atoi(m[1])
			if err != nil || days > MaxRelativeDays {
				return time.Time{}, errors.New(errors.InvalidParameter,
					fmt.Sprintf("too many days back: %s", m[1]),
					fmt.Sprintf("use at most %d days, or an absolute date", MaxRelativeDays))
			}
			return r.Today().AddDate(0, 0, -days), nil
		}
	}

	if m := cnWeekdayRe.FindStringSubmatch(expr); m != nil {
		return r.byWeekday(cnWeekdays[m[2]], m[1] == "上"), nil
	}
	if m := enWeekdayRe.FindStringSubmatch(expr); m != nil {
		return r.byWeekday(enWeekdays[m[2]], m[1] == "last"), nil
	}

	if m := isoDateRe.FindStringSubmatch(expr); m != nil {
		year, _ := strconv.Atoi(m[1])
		return r.makeDate(expression, year, atoi(m[2]), atoi(m[3]))
	}
	if m := cnDateRe.FindStringSubmatch(expr); m != nil {
		return r.makeDate(expression, r.inferYear(m[1], atoi(m[2])), atoi(m[2]), atoi(m[3]))
	}
	if m := slashDateRe.FindStringSubmatch(expr); m != nil {
		return r.makeDate(expression, r.inferYear(m[1], atoi(m[2])), atoi(m[2]), atoi(m[3]))
	}

	return time.Time{}, errors.New(errors.InvalidParameter,
		fmt.Sprintf("unrecognized date expression: %s", expression),
		"supported formats: "+supportedFormats)
}

// byWeekday walks back from today to the most recent occurrence of the
// target weekday (Monday=0), then one further week when lastWeek is set.
func (r *Resolver) byWeekday(target int, lastWeek bool) time.Time {
	today := r.Today()
	current := (int(today.Weekday()) + 6) % 7 // Go weeks start on Sunday
	diff := current - target
	if lastWeek {
		diff += 7
	} else if diff < 0 {
		diff += 7
	}
	return today.AddDate(0, 0, -diff)
}

// inferYear fills in a missing year: current year, unless the month is later
// than the current month, in which case the date belongs to last year.
func (r *Resolver) inferYear(yearStr string, month int) int {
	if yearStr != "" {
		y, _ := strconv.Atoi(yearStr)
		return y
	}
	now := r.now()
	if month > int(now.Month()) {
		return now.Year() - 1
	}
	return now.Year()
}

func (r *Resolver) makeDate(expression string, year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, errors.New(errors.InvalidParameter,
			fmt.Sprintf("invalid date: %s", expression),
			"month must be 1-12 and day 1-31")
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject that.
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, errors.New(errors.InvalidParameter,
			fmt.Sprintf("invalid date: %s", expression),
			"that day does not exist in the given month")
	}
	return d, nil
}

// AssertNotFuture fails when date is strictly after today. Callers invoke it
// explicitly where future dates make no sense; Resolve itself allows them.
func (r *Resolver) AssertNotFuture(date time.Time) error {
	if truncate(date).After(r.Today()) {
		return errors.New(errors.InvalidParameter,
			fmt.Sprintf("cannot query a future date: %s", date.Format("2006-01-02")),
			"use today or a past date")
	}
	return nil
}

// AssertNotTooOld fails when date is more than maxDays in the past.
func (r *Resolver) AssertNotTooOld(date time.Time, maxDays int) error {
	if maxDays <= 0 {
		maxDays = MaxRelativeDays
	}
	age := int(r.Today().Sub(truncate(date)).Hours() / 24)
	if age > maxDays {
		return errors.New(errors.InvalidParameter,
			fmt.Sprintf("date too far in the past: %s (%d days ago)", date.Format("2006-01-02"), age),
			fmt.Sprintf("query data within the last %d days", maxDays))
	}
	return nil
}

// FolderName formats a date as the corpus day-folder name.
func FolderName(date time.Time) string {
	return fmt.Sprintf("%04d年%02d月%02d日", date.Year(), int(date.Month()), date.Day())
}

// ParseFolderName parses a corpus day-folder name back into a date.
func ParseFolderName(name string) (time.Time, bool) {
	m := folderNameRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	d := time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), 0, 0, 0, 0, time.Local)
	return d, true
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
