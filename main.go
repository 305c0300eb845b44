package main

import (
	"log"

	"fyne.io/fyne/v2/app"

	"github.com/PixPMusic/gopher-keys/internal/config"
	"github.com/PixPMusic/gopher-keys/internal/midibridge"
	"github.com/PixPMusic/gopher-keys/internal/notes"
	"github.com/PixPMusic/gopher-keys/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	state := notes.NewState()

	bridge := midibridge.New(state)
	defer bridge.Close()

	fyneApp := app.NewWithID("com.pixpmusic.gopherkeys")

	mainWindow := ui.NewMainWindow(fyneApp, cfg, state, bridge)
	mainWindow.ConnectConfiguredPorts()
	mainWindow.Show()

	fyneApp.Run()
}
