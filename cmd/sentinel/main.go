package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/silent-sentinel/internal/config"
	"github.com/stigoleg/silent-sentinel/internal/keepalive"
	"github.com/stigoleg/silent-sentinel/internal/platform"
	"github.com/stigoleg/silent-sentinel/internal/ui"
)

const appVersion = "2.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags(appVersion)
	if err != nil {
		log.Fatal(err)
	}

	if !cfg.Headless {
		path := cfg.LogFile
		if path == "" {
			path = filepath.Join(os.TempDir(), "sentinel.log")
		}
		f, err := tea.LogToFile(path, "sentinel")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}

	plat, err := platform.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Current.Error.Render(err.Error()))
		return 1
	}
	log.Printf("sentinel: platform %s", plat.Name)

	engine, err := keepalive.New(cfg.Engine, plat)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Current.Error.Render(err.Error()))
		return 1
	}

	if cfg.Headless {
		err = runHeadless(engine)
	} else {
		err = runTUI(engine)
	}

	if stopErr := engine.Stop(); stopErr != nil {
		log.Printf("sentinel: shutdown: %v", stopErr)
	}
	if err != nil {
		log.Printf("sentinel: %v", err)
		fmt.Fprintln(os.Stderr, ui.Current.Error.Render(err.Error()))
		return 1
	}
	return 0
}

func runTUI(engine *keepalive.Engine) error {
	model := ui.InitialModel(engine)
	model.Usage = config.Usage()
	p := ui.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)
	ui.Bind(p, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, getSignalsForPlatform()...)
	defer signal.Stop(sigChan)

	if err := engine.Start(ctx); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigChan:
				if isSIGTSTPForPlatform(sig) {
					engine.Toggle()
					continue
				}
				log.Printf("sentinel: received signal %v", sig)
				p.Quit()
				return
			}
		}
	}()

	_, err := p.Run()
	return err
}

func runHeadless(engine *keepalive.Engine) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, getSignalsForPlatform()...)
	defer signal.Stop(sigChan)

	engine.OnModeChanged(func(mode keepalive.Mode) {
		log.Printf("sentinel: mode %s", mode)
	})
	if err := engine.Start(context.Background()); err != nil {
		return err
	}
	log.Printf("sentinel: running headless, interrupt to stop")

	for sig := range sigChan {
		if isSIGTSTPForPlatform(sig) {
			log.Printf("sentinel: %v toggles the engine", sig)
			engine.Toggle()
			continue
		}
		log.Printf("sentinel: received signal %v", sig)
		return nil
	}
	return nil
}
