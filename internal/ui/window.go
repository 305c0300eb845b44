package ui

import (
	"fmt"
	"log"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/PixPMusic/gopher-keys/internal/config"
	"github.com/PixPMusic/gopher-keys/internal/keybed"
	"github.com/PixPMusic/gopher-keys/internal/midibridge"
	"github.com/PixPMusic/gopher-keys/internal/notes"
)

// MainWindow manages the main application window
type MainWindow struct {
	window fyne.Window
	app    fyne.App
	cfg    *config.Config
	state  *notes.State
	bridge *midibridge.Bridge

	keyboard *keybed.Keyboard

	inPortSelect  *widget.Select
	outPortSelect *widget.Select
	statusLabel   *widget.Label
}

// NewMainWindow creates the main application window
func NewMainWindow(app fyne.App, cfg *config.Config, state *notes.State, bridge *midibridge.Bridge) *MainWindow {
	win := app.NewWindow("GopherKeys")

	mw := &MainWindow{
		window: win,
		app:    app,
		cfg:    cfg,
		state:  state,
		bridge: bridge,
	}

	mw.keyboard = keybed.New(state)
	mw.applyProfile(cfg.CurrentProfile())
	mw.setupUI()

	win.Resize(fyne.NewSize(900, 400))
	win.CenterOnScreen()
	return mw
}

// Show displays the window.
func (mw *MainWindow) Show() {
	mw.window.Show()
}

// ConnectConfiguredPorts opens the ports named in the current profile.
func (mw *MainWindow) ConnectConfiguredPorts() {
	p := mw.cfg.CurrentProfile()
	if p == nil {
		return
	}
	if err := mw.bridge.OpenInput(p.InPort); err != nil {
		log.Printf("Failed to open MIDI input %q: %v", p.InPort, err)
	}
	if err := mw.bridge.OpenOutput(p.OutPort); err != nil {
		log.Printf("Failed to open MIDI output %q: %v", p.OutPort, err)
	}
}

// applyProfile pushes a stored profile into the keyboard widget.
func (mw *MainWindow) applyProfile(p *config.Profile) {
	if p == nil {
		return
	}
	mw.keyboard.SetOrientation(orientationFromName(p.Orientation))
	mw.keyboard.SetKeyWidth(p.KeyWidth)
	mw.keyboard.SetBlackNoteWidthProportion(p.BlackWidthRatio)
	mw.keyboard.SetBlackNoteLengthProportion(p.BlackLengthRatio)
	mw.keyboard.SetAvailableRange(p.LowNote, p.HighNote)
	mw.keyboard.SetMidiChannel(p.Channel)
	mw.keyboard.SetVelocity(p.Velocity, p.VelocityFromPosition)
	mw.keyboard.SetKeyPressBaseOctave(p.BaseOctave)
	mw.keyboard.SetScrollButtonsVisible(p.ScrollButtons)
}

func (mw *MainWindow) setupUI() {
	keyboardTab := container.NewTabItem("Keyboard", mw.createKeyboardTab())
	settingsTab := container.NewTabItem("Settings", mw.createSettingsTab())

	tabs := container.NewAppTabs(keyboardTab, settingsTab)
	tabs.SetTabLocation(container.TabLocationTop)

	mw.window.SetContent(tabs)
}

// ============ KEYBOARD TAB ============

func (mw *MainWindow) createKeyboardTab() fyne.CanvasObject {
	mw.statusLabel = widget.NewLabel("")
	mw.keyboard.SetOnViewportChanged(func() {
		low := int(mw.keyboard.LowestVisibleNote())
		mw.statusLabel.SetText(fmt.Sprintf("Lowest visible key: %d", low))
	})

	return container.NewBorder(nil, mw.statusLabel, nil, nil, mw.keyboard)
}

// ============ SETTINGS TAB ============

func (mw *MainWindow) createSettingsTab() fyne.CanvasObject {
	p := mw.cfg.CurrentProfile()
	if p == nil {
		return widget.NewLabel("No profile configured")
	}

	mw.inPortSelect = widget.NewSelect(mw.bridge.ListInPorts(), func(name string) {
		p.InPort = name
		if err := mw.bridge.OpenInput(name); err != nil {
			log.Printf("Failed to open MIDI input %q: %v", name, err)
		}
	})
	mw.inPortSelect.PlaceHolder = "(no MIDI input)"
	mw.inPortSelect.SetSelected(p.InPort)

	mw.outPortSelect = widget.NewSelect(mw.bridge.ListOutPorts(), func(name string) {
		p.OutPort = name
		if err := mw.bridge.OpenOutput(name); err != nil {
			log.Printf("Failed to open MIDI output %q: %v", name, err)
		}
	})
	mw.outPortSelect.PlaceHolder = "(no MIDI output)"
	mw.outPortSelect.SetSelected(p.OutPort)

	refreshBtn := widget.NewButtonWithIcon("Rescan Ports", theme.ViewRefreshIcon(), func() {
		mw.inPortSelect.Options = mw.bridge.ListInPorts()
		mw.inPortSelect.Refresh()
		mw.outPortSelect.Options = mw.bridge.ListOutPorts()
		mw.outPortSelect.Refresh()
	})

	orientationSelect := widget.NewSelect(
		[]string{"horizontal", "vertical-left", "vertical-right"},
		func(name string) {
			p.Orientation = name
			mw.keyboard.SetOrientation(orientationFromName(name))
		})
	orientationSelect.SetSelected(p.Orientation)

	keyWidthSlider := widget.NewSlider(8, 48)
	keyWidthSlider.SetValue(float64(p.KeyWidth))
	keyWidthSlider.OnChanged = func(v float64) {
		p.KeyWidth = float32(v)
		mw.keyboard.SetKeyWidth(float32(v))
	}

	blackWidthSlider := widget.NewSlider(0.3, 1)
	blackWidthSlider.Step = 0.05
	blackWidthSlider.SetValue(float64(p.BlackWidthRatio))
	blackWidthSlider.OnChanged = func(v float64) {
		p.BlackWidthRatio = float32(v)
		mw.keyboard.SetBlackNoteWidthProportion(float32(v))
	}

	blackLengthSlider := widget.NewSlider(0.3, 1)
	blackLengthSlider.Step = 0.05
	blackLengthSlider.SetValue(float64(p.BlackLengthRatio))
	blackLengthSlider.OnChanged = func(v float64) {
		p.BlackLengthRatio = float32(v)
		mw.keyboard.SetBlackNoteLengthProportion(float32(v))
	}

	channelOptions := make([]string, 16)
	for i := range channelOptions {
		channelOptions[i] = strconv.Itoa(i + 1)
	}
	channelSelect := widget.NewSelect(channelOptions, func(name string) {
		ch, err := strconv.Atoi(name)
		if err != nil {
			return
		}
		p.Channel = ch
		mw.keyboard.SetMidiChannel(ch)
	})
	channelSelect.SetSelected(strconv.Itoa(p.Channel))

	velocitySlider := widget.NewSlider(0, 1)
	velocitySlider.Step = 0.01
	velocitySlider.SetValue(float64(p.Velocity))
	velocitySlider.OnChanged = func(v float64) {
		p.Velocity = float32(v)
		mw.keyboard.SetVelocity(float32(v), p.VelocityFromPosition)
	}

	velocityFromPosCheck := widget.NewCheck("Velocity follows strike position", func(on bool) {
		p.VelocityFromPosition = on
		mw.keyboard.SetVelocity(p.Velocity, on)
	})
	velocityFromPosCheck.SetChecked(p.VelocityFromPosition)

	baseOctaveSlider := widget.NewSlider(0, 10)
	baseOctaveSlider.Step = 1
	baseOctaveSlider.SetValue(float64(p.BaseOctave))
	baseOctaveSlider.OnChanged = func(v float64) {
		p.BaseOctave = int(v)
		mw.keyboard.SetKeyPressBaseOctave(int(v))
	}

	scrollCheck := widget.NewCheck("Show octave scroll buttons", func(on bool) {
		p.ScrollButtons = on
		mw.keyboard.SetScrollButtonsVisible(on)
	})
	scrollCheck.SetChecked(p.ScrollButtons)

	saveBtn := widget.NewButtonWithIcon("Save Settings", theme.DocumentSaveIcon(), func() {
		mw.cfg.UpdateProfile(*p)
		if err := mw.cfg.Save(); err != nil {
			log.Printf("Failed to save config: %v", err)
		}
	})
	saveBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		widget.NewLabelWithStyle("MIDI", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, widget.NewLabel("Input port"), mw.inPortSelect),
		container.NewGridWithColumns(2, widget.NewLabel("Output port"), mw.outPortSelect),
		container.NewGridWithColumns(2, widget.NewLabel("Channel"), channelSelect),
		refreshBtn,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Keyboard", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, widget.NewLabel("Orientation"), orientationSelect),
		container.NewGridWithColumns(2, widget.NewLabel("Key width"), keyWidthSlider),
		container.NewGridWithColumns(2, widget.NewLabel("Black key width"), blackWidthSlider),
		container.NewGridWithColumns(2, widget.NewLabel("Black key length"), blackLengthSlider),
		container.NewGridWithColumns(2, widget.NewLabel("Velocity"), velocitySlider),
		velocityFromPosCheck,
		container.NewGridWithColumns(2, widget.NewLabel("QWERTY base octave"), baseOctaveSlider),
		scrollCheck,
		widget.NewSeparator(),
		container.NewHBox(saveBtn),
	)

	return container.NewVScroll(form)
}

func orientationFromName(name string) keybed.Orientation {
	switch name {
	case "vertical-left":
		return keybed.VerticalFacingLeft
	case "vertical-right":
		return keybed.VerticalFacingRight
	default:
		return keybed.Horizontal
	}
}
