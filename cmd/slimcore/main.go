// This project is licensed under the MIT License (see LICENSE).

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	flag "github.com/spf13/pflag"

	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/monitor"
	"github.com/jcrd/slimcore/internal/paramfile"
)

// version is overwritten at build time via -ldflags, following the
// convention of reporting a real version string rather than a literal
// "dev" placeholder.
var version = "dev"

func main() {
	paramPath := flag.String("param-file", "", "path to a simulation parameter file (required)")
	seed := flag.Int64("seed", 0, "PRNG seed overriding #SEED; 0 keeps the parameter file's seed, and without one a seed is derived from the process id and current time")
	tick := flag.Duration("tick", 0, "sleep between generations, for watching a run live in a monitor (0 runs at full speed)")
	monitorAddr := flag.String("monitor-addr", "", "if set, serve a websocket monitor on this address (e.g. :3600)")
	scriptPath := flag.String("script", "", "path to a callback script; overrides the parameter file's #CALLBACKS section")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	if err := run(*paramPath, *seed, *tick, *monitorAddr, *scriptPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode is the sole point in this program where an apperr.Kind is
// converted to a process exit status; every other layer just returns the
// error.
func exitCode(err error) int {
	ae, ok := err.(*apperr.Error)
	if !ok {
		return 1
	}
	switch ae.Kind {
	case apperr.InvalidInput, apperr.ConfigError:
		return 2
	case apperr.CallbackLimit:
		return 3
	default:
		return 1
	}
}

func run(paramPath string, seed int64, tick time.Duration, monitorAddr, scriptPath string) error {
	if paramPath == "" {
		return apperr.New(apperr.InvalidInput, "--param-file is required")
	}

	f, err := os.Open(paramPath)
	if err != nil {
		return apperr.New(apperr.InvalidInput, "opening parameter file: %v", err)
	}
	defer f.Close()

	cfg, err := paramfile.Read(f)
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	e, err := paramfile.Build(cfg)
	if err != nil {
		return err
	}

	if cfg.InitializationFile != "" {
		init, err := os.Open(cfg.InitializationFile)
		if err != nil {
			return apperr.New(apperr.InvalidInput, "opening initialization file %q: %v", cfg.InitializationFile, err)
		}
		err = paramfile.Load(e, init)
		init.Close()
		if err != nil {
			return err
		}
	}

	if scriptPath == "" {
		scriptPath = cfg.CallbackScript
	}
	if scriptPath != "" {
		src, err := os.ReadFile(scriptPath)
		if err != nil {
			return apperr.New(apperr.InvalidInput, "opening callback script %q: %v", scriptPath, err)
		}
		if err := e.RunInitializationScript(string(src)); err != nil {
			return err
		}
	}

	runID := uuid.New().String()

	var bcast *monitor.Broadcaster
	if monitorAddr != "" {
		bcast = monitor.New(runID, func() monitor.Meta {
			return monitor.Meta{
				RunID:            runID,
				ChromosomeLength: e.Chromosome.Length(),
				Generation:       e.Generation,
				GenerationsTotal: e.GenerationsTotal,
				Subpopulations:   len(e.Population.Order),
			}
		})
		e.Monitor = bcast

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", bcast.WebsocketHandler)
		mux.HandleFunc("/status", bcast.StatusHandler)
		server := &http.Server{Addr: monitorAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintln(os.Stderr, err)
			}
		}()
		defer server.Close()
		defer bcast.Close()

		fmt.Fprintf(os.Stderr, "run %s: monitor listening on %s\n", runID, monitorAddr)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	stopped := make(chan error, 1)
	go func() {
		for g := 0; g < e.GenerationsTotal; g++ {
			e.Generation++
			if err := e.RunGeneration(); err != nil {
				stopped <- err
				return
			}
			if tick > 0 {
				time.Sleep(tick)
			}
		}
		stopped <- nil
	}()

	select {
	case <-sig:
		return apperr.New(apperr.InvalidInput, "interrupted at generation %d", e.Generation)
	case err := <-stopped:
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "run %s: completed %s generations, %s live mutations\n",
		runID, humanize.Comma(int64(e.Generation)), humanize.Comma(int64(e.Pool.Live())))
	return nil
}
