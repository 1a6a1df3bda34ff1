package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sadopc/focusknob/internal/clock"
	"github.com/sadopc/focusknob/internal/config"
	"github.com/sadopc/focusknob/internal/device"
	"github.com/sadopc/focusknob/internal/ledger"
	"github.com/sadopc/focusknob/internal/link"
	"github.com/sadopc/focusknob/internal/nav"
	"github.com/sadopc/focusknob/internal/store"
	"github.com/sadopc/focusknob/internal/timer"
	"github.com/sadopc/focusknob/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := openLog(cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		Level:           cfg.LogLevel(),
	})

	s, err := store.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	logSettings(s, logger)

	wall := clock.New()
	l := ledger.Open(s, ledger.WithClock(wall.Now), ledger.WithLogger(logger.WithPrefix("ledger")))

	display := tui.NewDisplay()
	opts := []device.Option{
		device.WithDisplay(display),
		device.WithHaptic(display),
		device.WithThemeStore(s, s.ThemeIndex()),
		device.WithTimerMinutes(
			s.GetInt(store.KeyTimerMinutes, timer.DefaultMinutes),
			s.GetInt(store.KeyTaskTimerMinutes, timer.DefaultMinutes),
		),
		device.WithLogger(logger),
	}

	var port io.ReadWriteCloser
	if cfg.LinkEnabled() {
		p, err := link.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			ports, _ := link.Ports()
			logger.Error("host link unavailable", "port", cfg.Serial.Port, "err", err, "available", ports)
		} else {
			port = p
			opts = append(opts, device.WithLinkWriter(p))
			logger.Info("host link open", "port", cfg.Serial.Port, "baud", cfg.Serial.Baud)
		}
	}

	dev := device.New(wall, l, opts...)

	inputs := make(chan nav.Input, 32)
	prog := tea.NewProgram(tui.NewApp(dev, inputs), tea.WithAltScreen())
	display.Attach(prog)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		var r io.Reader
		if port != nil {
			r = port
		}
		done <- dev.Run(ctx, inputs, r)
	}()

	_, runErr := prog.Run()
	cancel()
	if err := <-done; err != nil {
		logger.Error("device stopped", "err", err)
	}

	savePresets(dev, s, logger)
	return runErr
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func logSettings(s *store.Store, logger *log.Logger) {
	settings, err := s.GetAllSettings()
	if err != nil {
		logger.Warn("read settings", "err", err)
		return
	}
	for _, st := range settings {
		logger.Debug("setting", "key", st.Key, "value", st.Value)
	}
}

// savePresets keeps the last timer durations for the next start.
func savePresets(dev *device.Device, s *store.Store, logger *log.Logger) {
	snap, err := dev.Snapshot()
	if err != nil {
		logger.Warn("presets not saved", "err", err)
		return
	}
	if err := s.SetInt(store.KeyTimerMinutes, snap.Focus.Minutes); err != nil {
		logger.Error("save timer preset", "err", err)
	}
	if err := s.SetInt(store.KeyTaskTimerMinutes, snap.Task.Minutes); err != nil {
		logger.Error("save task timer preset", "err", err)
	}
}
