//go:build !darwin

package main

import "golang.design/x/hotkey"

func newQuitHotkey() *hotkey.Hotkey {
	return hotkey.New([]hotkey.Modifier{hotkey.ModCtrl}, hotkey.KeyQ)
}
