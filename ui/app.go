package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mbocsi/lightsched/client"
	"github.com/mbocsi/lightsched/loop"
	"github.com/mbocsi/lightsched/particles"
	"github.com/mbocsi/lightsched/prefs"
)

type AppOptions struct {
	// Resolve returns the controller endpoint. It runs off the UI loop so a
	// slow mDNS lookup does not freeze the animation.
	Resolve func(ctx context.Context) (string, error)

	// Frames drives rendering; TextFrames drives the clock text. Both default
	// to tickers at FrameInterval.
	Frames        loop.FrameClock
	TextFrames    loop.FrameClock
	FrameInterval time.Duration

	Field *particles.Field
}

// App is the panel: one loop that renders frames and handles terminal input,
// with the session reading acks in the background.
type App struct {
	screen  tcell.Screen
	session *client.Session
	panel   *Panel
	theme   *prefs.Theme
	form    *Form
	field   *particles.Field
	canvas  *Canvas
	clock   *loop.ClockText
	shake   *shaker
	opts    AppOptions

	frame      uint64
	cols, rows int
}

func NewApp(screen tcell.Screen, session *client.Session, panel *Panel, theme *prefs.Theme, opts AppOptions) *App {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = loop.DefaultFrameInterval
	}
	if opts.Frames == nil {
		opts.Frames = loop.NewTickerClock(opts.FrameInterval)
	}
	if opts.TextFrames == nil {
		opts.TextFrames = loop.NewTickerClock(opts.FrameInterval)
	}
	field := opts.Field
	if field == nil {
		field = particles.NewField()
	}

	return &App{
		screen:  screen,
		session: session,
		panel:   panel,
		theme:   theme,
		form:    NewForm(),
		field:   field,
		canvas:  NewCanvas(screen),
		clock:   loop.NewClockText(panel.SetClock),
		shake:   newShaker(opts.FrameInterval),
		opts:    opts,
	}
}

func (a *App) Form() *Form { return a.form }

func (a *App) Particles() *particles.Field { return a.field }

// Run blocks until the user quits, ctx is done, or the frame clock stops.
// The session is closed on return.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.opts.Frames.Stop()
	defer a.session.Close()

	a.resize()

	go a.clock.Run(ctx, a.opts.TextFrames)
	if a.opts.Resolve != nil {
		go a.runSession(ctx)
	}

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	frames := a.opts.Frames.Frames()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return nil
			}

		case _, ok := <-frames:
			if !ok {
				return nil
			}
			a.draw()
		}
	}
}

func (a *App) runSession(ctx context.Context) {
	endpoint, err := a.opts.Resolve(ctx)
	if err != nil {
		slog.Error("Failed to resolve controller", "error", err.Error())
		a.panel.ShowNotification("Connection error", client.SeverityError)
		a.panel.AddHistoryItem("Connection error occurred")
		return
	}
	if err := a.session.Connect(ctx, endpoint); err != nil {
		return
	}
	if err := a.session.Run(ctx); err != nil {
		slog.Warn("Session ended", "error", err.Error())
	}
}

// handleEvent applies one terminal event. It returns false when the app
// should quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch a.form.HandleKey(ev) {
		case ActionQuit:
			return false
		case ActionSubmit:
			a.submit()
		case ActionToggleTheme:
			if err := a.theme.Toggle(); err != nil {
				slog.Warn("Failed to save theme", "error", err.Error())
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	}
	return true
}

func (a *App) submit() {
	err := a.session.Submit(a.form.OnTime(), a.form.OffTime())
	if err != nil {
		slog.Debug("Submit rejected", "error", err.Error())
	}
}

// resize reseeds the particle field when the terminal size changed.
func (a *App) resize() {
	cols, rows := a.screen.Size()
	if cols == a.cols && rows == a.rows && a.field.Len() > 0 {
		return
	}
	a.cols, a.rows = cols, rows
	vp := ViewportFor(cols, rows)
	a.field.Seed(vp.Width, vp.Height)
	slog.Debug("Terminal resized", "cols", cols, "rows", rows, "particles", a.field.Len())
}

func (a *App) draw() {
	a.frame++
	dark := a.theme.IsDark()
	pal := PaletteFor(dark)

	a.canvas.SetBackground(pal.Background)
	a.field.Tick(a.canvas, dark)

	v := a.panel.View()
	a.shake.kick(v.Shakes)
	drawOverlay(a.screen, pal, a.form, v, a.frame, a.shake.step())
	a.screen.Show()
}
