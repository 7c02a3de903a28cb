// Command backdrop runs one particle preset full-screen in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"

	"ufc-predict/backdrop"
	"ufc-predict/particle"
)

func main() {
	name := flag.String("variant", "blood", "preset to run: "+strings.Join(particle.Names(), ", "))
	fps := flag.Int("fps", 0, "frames per second; 0 uses the preset's rate")
	flag.Parse()

	v, err := particle.Lookup(*name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Without a terminal there is nothing to draw on.
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return
	}
	if err := screen.Init(); err != nil {
		return
	}
	defer screen.Fini()
	screen.HideCursor()

	interval := v.Interval
	if *fps > 0 {
		interval = time.Second / time.Duration(*fps)
	}
	loop := particle.NewFrameLoop(interval)
	win := particle.NewWindow(backdrop.PixelSize(screen.Size()))
	c := particle.NewController(v, backdrop.NewTerminal(screen), win, loop, particle.WithSeed(uint64(time.Now().UnixNano())))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventResize:
				w, h := backdrop.PixelSize(ev.Size())
				loop.Post(func() { win.Resize(w, h) })
			case *tcell.EventKey:
				if quit(ev) {
					cancel()
					return
				}
			}
		}
	}()

	c.Start()
	loop.Run(ctx)
	c.Stop()
}

func quit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
