package main

import (
	"log"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ebenmoss/deskminder/pkg/platform"
)

// setupFocusMonitoring keeps the alert window in front until it is
// answered. On platforms without an activation API this is a no-op loop
// that exits with the window.
func (aw *AlertWindow) setupFocusMonitoring() {
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-aw.stopMonitoring:
				return
			case <-ticker.C:
				if aw.window == nil {
					return
				}

				if !platform.IsAppActive() {
					log.Println("Alert window not active - bringing to front")
					platform.ActivateApp()
					fyne.Do(func() {
						if aw.window != nil {
							aw.window.Show()
						}
					})
				}
			}
		}
	}()
}
