package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pi22by7/semcore/internal/learning"
	"github.com/pi22by7/semcore/internal/watch"
)

var watchCommand = &cli.Command{
	Name:  "watch",
	Usage: "Watch a codebase for file changes and feed them into the pattern learning engine",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Print every change event as it's applied",
		},
	},
	Action: watchCommandAction,
}

func watchCommandAction(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	engine := learning.NewPatternLearningEngine(cfg)
	w, err := watch.NewWatcher(cfg, watch.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	verbose := c.Bool("verbose")
	w.OnChange = func(event watch.ChangeEvent) {
		payload, err := event.JSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "watch: failed to encode event: %v\n", err)
			return
		}
		if !engine.UpdateFromChange(payload) {
			fmt.Fprintf(os.Stderr, "watch: failed to apply change for %s\n", event.Path)
			return
		}
		if verbose {
			fmt.Printf("%s %s\n", event.Type, event.Path)
		}
	}

	if err := w.Start(cfg.Project.Root); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	fmt.Printf("Watching %s for changes (ctrl-c to stop)\n", cfg.Project.Root)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	return w.Stop()
}
