package service

import (
	"time"

	"github.com/msomdec/todo-list/internal/domain"
)

const (
	statsWindowDays = 7
	doneGlyph       = "✅ "
	pendingGlyph    = "🕒 "
)

// BuildDashboard derives the dashboard from a user's tasks (newest first).
//
// The chart covers the 7 UTC days ending on now's date. A done task is
// counted as completed on the day it was created; tasks carry no
// completion timestamp.
func BuildDashboard(tasks []domain.Task, now time.Time) domain.Dashboard {
	pending, done := PartitionTasks(tasks)

	return domain.Dashboard{
		Tasks:   tasks,
		Pending: pending,
		Done:    done,
		Stats:   dailyStats(tasks, now),
		Events:  calendarEvents(tasks),
	}
}

func dailyStats(tasks []domain.Task, now time.Time) domain.DailyStats {
	today := utcDate(now)
	first := today.AddDate(0, 0, -(statsWindowDays - 1))

	stats := domain.DailyStats{
		Labels:    make([]string, statsWindowDays),
		Created:   make([]int, statsWindowDays),
		Completed: make([]int, statsWindowDays),
	}
	for i := range statsWindowDays {
		stats.Labels[i] = first.AddDate(0, 0, i).Format("02/01")
	}

	for _, t := range tasks {
		day := utcDate(t.CreatedAt)
		if day.Before(first) || day.After(today) {
			continue
		}
		i := int(day.Sub(first).Hours() / 24)
		stats.Created[i]++
		if t.Done {
			stats.Completed[i]++
		}
	}
	return stats
}

func calendarEvents(tasks []domain.Task) []domain.CalendarEvent {
	events := make([]domain.CalendarEvent, 0, len(tasks))
	for _, t := range tasks {
		glyph := pendingGlyph
		if t.Done {
			glyph = doneGlyph
		}
		events = append(events, domain.CalendarEvent{
			Title:  glyph + t.Title,
			Start:  t.CreatedAt.UTC().Format(time.DateOnly),
			AllDay: true,
		})
	}
	return events
}

func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
