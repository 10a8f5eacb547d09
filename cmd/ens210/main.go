// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ens210 reads temperature and humidity from an ENS210 sensor on an I²C bus.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GermanBionicSystems/ens210/ens210"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "ens210: %s.\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.String("bus", "", "I²C bus to use")
	flag.Uint("addr", uint(ens210.DefaultAddress), "I²C address")
	flag.String("mode", modeSingle, "Measurement mode, single or continuous")
	flag.Int("n", 0, "Number of readings, 0 to read until interrupted")
	flag.Int("interval", 1000, "Milliseconds between readings")
	flag.Bool("ah", false, "Also report absolute humidity")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %s", flag.Args())
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	if !*verbose {
		log.SetFlags(0)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, flag.CommandLine); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return err
	}
	defer bus.Close()

	dev, err := ens210.NewI2C(bus, cfg.Opts())
	if err != nil {
		return err
	}
	if *verbose {
		id, err := dev.Identity()
		if err != nil {
			return err
		}
		log.Printf("[main] %s %s", dev, id)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readings := make(chan ens210.Measurement)
	s := newSampler(dev, cfg)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(readings)
		return s.run(ctx, readings)
	})
	g.Go(func() error {
		for m := range readings {
			if cfg.AbsoluteHumidity {
				log.Printf("%8.3f°C %8.3f%%RH %7.3fg/m³", m.Temperature, m.Humidity, m.AbsoluteHumidity())
			} else {
				log.Printf("%8.3f°C %8.3f%%RH", m.Temperature, m.Humidity)
			}
		}
		return nil
	})
	return g.Wait()
}

// applyFlags overrides cfg with the flags explicitly set on the command line.
func applyFlags(cfg *Config, fs *flag.FlagSet) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		g, ok := f.Value.(flag.Getter)
		if !ok || err != nil {
			return
		}
		switch f.Name {
		case "bus":
			cfg.Bus = g.Get().(string)
		case "addr":
			addr := g.Get().(uint)
			if addr > 0x7f {
				err = fmt.Errorf("-addr 0x%x is not a 7-bit address", addr)
				return
			}
			cfg.Address = uint16(addr)
		case "mode":
			cfg.Mode = g.Get().(string)
		case "n":
			cfg.Count = g.Get().(int)
		case "interval":
			cfg.IntervalMs = g.Get().(int)
		case "ah":
			cfg.AbsoluteHumidity = g.Get().(bool)
		}
	})
	return err
}
