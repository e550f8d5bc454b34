// Package ui implements the interactive spectroscopy view: one window with
// the spectrum-plus-peaks panel, the fit and residual panels, the results
// table, and the mode buttons. The Gio event loop drives everything; user
// gestures become typed events consumed by a single dispatcher.
package ui

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	gvtheme "github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenGammaLab/gammaview/pkg/peakfit"
)

type modelOption struct {
	Model peakfit.Background
	Label string
}

var modelOptions = []modelOption{
	{Model: peakfit.Poly1, Label: "poly1"},
	{Model: peakfit.Poly2, Label: "poly2"},
	{Model: peakfit.Exp, Label: "exp"},
}

// App drives the Gio-based spectroscopy UI.
type App struct {
	Window   *app.Window
	Theme    *material.Theme
	Session  *Session
	Dispatch *Dispatcher

	ops    op.Ops
	shaper *text.Shaper

	gvTheme     *gvtheme.Theme
	optionsMenu *menu.DropdownMenu
	optionsBtn  widget.Clickable

	openBtn  widget.Clickable
	openIcon *widget.Icon
	scaleBtn widget.Clickable

	modelButtons map[peakfit.Background]*widget.Clickable

	picker *explorer.Explorer

	spectrumPanel spectrumPanel
	tableList     layout.List
}

// New wires the theme, dispatcher, and widget state together.
func New(sess *Session) *App {
	baseTheme := material.NewTheme()
	baseTheme.Palette = material.Palette{
		Bg:         color.NRGBA{R: 24, G: 26, B: 33, A: 255},
		Fg:         color.NRGBA{R: 214, G: 219, B: 230, A: 255},
		ContrastBg: color.NRGBA{R: 80, G: 130, B: 255, A: 255},
		ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
	a := &App{
		Theme:    baseTheme,
		Session:  sess,
		Dispatch: NewDispatcher(sess),
		shaper:   text.NewShaper(text.WithCollection(gofont.Collection())),
		gvTheme:  gvtheme.NewTheme("", nil, true),
		modelButtons: func() map[peakfit.Background]*widget.Clickable {
			m := make(map[peakfit.Background]*widget.Clickable, len(modelOptions))
			for _, opt := range modelOptions {
				m[opt.Model] = new(widget.Clickable)
			}
			return m
		}(),
		tableList: layout.List{Axis: layout.Vertical},
	}
	if icon, err := widget.NewIcon(icons.FileFolderOpen); err == nil {
		a.openIcon = icon
	} else {
		log.Printf("ui: failed to load open icon: %v", err)
	}
	a.optionsMenu = a.buildOptionsMenu()
	return a
}

// Run opens the window and processes Gio events until it is closed.
func (a *App) Run() error {
	w := new(app.Window)
	title := "GammaView"
	if snap := a.Session.Snapshot(); snap.FilePath != "" {
		title = fmt.Sprintf("GammaView - %s", filepath.Base(snap.FilePath))
	}
	w.Option(app.Title(title))
	w.Option(app.Size(unit.Dp(1150), unit.Dp(780)))
	a.Window = w
	a.picker = explorer.NewExplorer(w)

	for {
		e := w.Event()
		a.picker.ListenEvents(e)
		switch ev := e.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

// invalidate requests a new frame.
func (a *App) invalidate() {
	if a.Window != nil {
		a.Window.Invalidate()
	}
}

// dispatch routes an event through the dispatcher and redraws.
func (a *App) dispatch(ev Event) {
	a.Dispatch.Dispatch(ev)
	a.invalidate()
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	snap := a.Session.Snapshot()

	fillBackground(gtx)

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutTopBar(gtx, &snap)
		}),
		layout.Flexed(0.55, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return a.layoutSpectrumPanel(gtx, &snap)
			})
		}),
		layout.Flexed(0.45, func(gtx layout.Context) layout.Dimensions {
			return a.layoutLowerPanels(gtx, &snap)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutStatus(gtx, &snap)
		}),
	)
}

func (a *App) layoutLowerPanels(gtx layout.Context, snap *Snapshot) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Flexed(0.62, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Flexed(0.62, func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return a.layoutFitPanel(gtx, snap)
					})
				}),
				layout.Flexed(0.38, func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return a.layoutResidualPanel(gtx, snap)
					})
				}),
			)
		}),
		layout.Flexed(0.38, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return a.layoutTablePanel(gtx, snap)
			})
		}),
	)
}

func (a *App) layoutTopBar(gtx layout.Context, snap *Snapshot) layout.Dimensions {
	return layout.Inset{
		Top: unit.Dp(10), Bottom: unit.Dp(4), Left: unit.Dp(14), Right: unit.Dp(14),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(material.H6(a.Theme, "Gamma Spectroscopy").Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				for a.openBtn.Clicked(gtx) {
					a.showSpectrumPicker()
				}
				if a.openIcon == nil {
					b := material.Button(a.Theme, &a.openBtn, "Open")
					b.Inset = layout.UniformInset(unit.Dp(6))
					return b.Layout(gtx)
				}
				btn := material.IconButton(a.Theme, &a.openBtn, a.openIcon, "Open spectrum")
				btn.Size = unit.Dp(18)
				btn.Inset = layout.UniformInset(unit.Dp(6))
				return btn.Layout(gtx)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{}
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.layoutModelButtons(gtx, snap)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(14)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				for a.scaleBtn.Clicked(gtx) {
					a.dispatch(ScaleToggled{})
				}
				label := "log"
				if !snap.LogY {
					label = "linear"
				}
				btn := material.Button(a.Theme, &a.scaleBtn, label)
				btn.Inset = layout.UniformInset(unit.Dp(6))
				return btn.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if a.optionsMenu != nil && a.optionsBtn.Clicked(gtx) {
					a.optionsMenu.ToggleVisibility(gtx)
				}
				btn := material.Button(a.Theme, &a.optionsBtn, "View")
				btn.Inset = layout.UniformInset(unit.Dp(6))
				dims := btn.Layout(gtx)
				if a.optionsMenu != nil {
					a.optionsMenu.Layout(gtx, a.gvTheme)
				}
				return dims
			}),
		)
	})
}

// layoutModelButtons renders the mutually exclusive background-model
// buttons. They stay muted until a region has been selected; clicking one
// without a selection is a benign no-op surfaced in the status line.
func (a *App) layoutModelButtons(gtx layout.Context, snap *Snapshot) layout.Dimensions {
	children := make([]layout.FlexChild, 0, len(modelOptions)*2)
	for _, opt := range modelOptions {
		option := opt
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			clk := a.modelButtons[option.Model]
			btn := material.Button(a.Theme, clk, option.Label)
			switch {
			case snap.Selection == nil:
				btn.Background = color.NRGBA{R: 48, G: 52, B: 63, A: 255}
				btn.Color = color.NRGBA{R: 130, G: 136, B: 150, A: 255}
			case option.Model == snap.Model:
				btn.Background = color.NRGBA{R: 80, G: 130, B: 255, A: 255}
			default:
				btn.Background = color.NRGBA{R: 58, G: 63, B: 78, A: 255}
			}
			btn.Inset = layout.UniformInset(unit.Dp(6))
			dims := btn.Layout(gtx)
			for clk.Clicked(gtx) {
				a.dispatch(ModelChosen{Model: option.Model})
			}
			return dims
		}))
		children = append(children, layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout))
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
}

func (a *App) layoutStatus(gtx layout.Context, snap *Snapshot) layout.Dimensions {
	source := snap.FilePath
	if source == "" {
		source = "no file"
	}
	info := fmt.Sprintf("%s | %d channels (%s) | SNR > %.3g | %d peak(s)",
		filepath.Base(source), snap.Spectrum.Len(), snap.Spectrum.XUnits,
		snap.Params.MinSNR, len(snap.Search.Peaks))

	return layout.Inset{
		Top: unit.Dp(6), Bottom: unit.Dp(6), Left: unit.Dp(14), Right: unit.Dp(14),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(material.Body2(a.Theme, info).Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{}
			}),
			layout.Rigid(material.Body2(a.Theme, snap.Status).Layout),
		)
	})
}

func (a *App) buildOptionsMenu() *menu.DropdownMenu {
	type item struct {
		label string
		event Event
	}
	items := []item{
		{label: "Toggle SNR overlay", event: SNRToggled{}},
		{label: "Toggle log/linear scale", event: ScaleToggled{}},
	}
	opts := make([]menu.MenuOption, 0, len(items))
	for _, it := range items {
		entry := it
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				a.dispatch(entry.event)
				return nil
			},
			Layout: func(gtx menu.C, th *gvtheme.Theme) menu.D {
				lbl := material.Body1(th.Theme, entry.label)
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, lbl.Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(220)
	return drop
}

// showSpectrumPicker opens the file dialog on its own goroutine and feeds
// the chosen path back through the dispatcher.
func (a *App) showSpectrumPicker() {
	go func() {
		file, err := a.picker.ChooseFile("csv", "spe")
		if err != nil {
			if err != explorer.ErrUserDecline {
				log.Printf("ui: file picker failed: %v", err)
			}
			return
		}
		defer file.Close()

		f, ok := file.(*os.File)
		if !ok {
			log.Printf("ui: unable to get file path from picker")
			return
		}
		a.dispatch(SpectrumOpened{Path: f.Name()})
	}()
}
