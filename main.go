// Package main provides the entry point for the Floor Sketch application.
package main

import (
	"log"
	"os"

	"floor-sketch/internal/app"
	"floor-sketch/internal/controller"
	"floor-sketch/internal/version"
	"floor-sketch/ui/mainwindow"
	"floor-sketch/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appTitle = "Floor Sketch"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("floor-sketch")
	fyneApp.Settings().SetTheme(&app.SketchTheme{})

	state := app.NewState()
	ctrl := controller.New(state)
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, state, ctrl, appPrefs)

	// Open a plan given on the command line
	if len(os.Args) > 1 {
		path := os.Args[1]
		if err := state.LoadProject(path); err != nil {
			log.Printf("Failed to load plan %s: %v", path, err)
		}
	}

	win.ShowAndRun()
}
