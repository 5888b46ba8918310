package main

import (
	"fmt"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

func (dm *Deskminder) setupSystemTray() {
	dm.updateSystemTrayMenu()
}

func (dm *Deskminder) updateSystemTrayMenu() {
	desk, ok := dm.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	upcoming := dm.upcomingDeliveries(5)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, d := range upcoming {
			text := fmt.Sprintf("  %s - %s", d.due.Format("Mon 3:04 PM"), truncateString(d.title, 35))
			item := fyne.NewMenuItem(text, nil)
			item.Disabled = true
			menuItems = append(menuItems, item)
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	// Poller health: a stuck background check should be visible here, not
	// discovered by a missed reminder.
	healthItem := fyne.NewMenuItem(dm.lastCheck(), nil)
	healthItem.Disabled = true
	menuItems = append(menuItems, healthItem)

	menuItems = append(menuItems,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Deskminder", func() {
			dm.showMainWindow()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			dm.quit()
		}),
	)

	menu := fyne.NewMenu("Deskminder", menuItems...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.HistoryIcon())
}

type upcomingDelivery struct {
	due   time.Time
	title string
}

// upcomingDeliveries returns the next limit pending deliveries, reminders
// and snoozed items together, ordered by due time.
func (dm *Deskminder) upcomingDeliveries(limit int) []upcomingDelivery {
	now := time.Now()
	deliveries := []upcomingDelivery{}

	for _, r := range dm.reminders.ListActive() {
		due, err := r.DueTime(now.Location())
		if err != nil || due.Before(now) {
			continue
		}
		deliveries = append(deliveries, upcomingDelivery{due: due, title: r.Title})
	}

	for _, item := range dm.reminders.ListActiveSnoozed() {
		due, err := item.DueTime(now.Location())
		if err != nil || due.Before(now) {
			continue
		}
		deliveries = append(deliveries, upcomingDelivery{due: due, title: item.Title})
	}

	sort.Slice(deliveries, func(i, j int) bool {
		return deliveries[i].due.Before(deliveries[j].due)
	})

	if len(deliveries) > limit {
		deliveries = deliveries[:limit]
	}
	return deliveries
}

// truncateString truncates a string to maxLen characters, adding "..." if
// needed. Counts runes so a multi-byte title is never split mid-character.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
