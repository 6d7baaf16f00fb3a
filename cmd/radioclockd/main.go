package main

/*------------------------------------------------------------------
 *
 * Purpose: radioclockd — run the decoder against a live GPIO or audio
 *          input, publish the decoded time over NMEA/mDNS. Grounded on
 *          cmd/direwolf/main.go's flat main-with-pflag-and-logging
 *          shape.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"radioclock/config"
	"radioclock/hostio"
	radioclock "radioclock/src"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "YAML config file path")
	overrides := config.BindFlags(pflag.CommandLine)
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", "err", err)
	}
	overrides.Apply(cfg)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	var proto radioclock.Protocol
	switch cfg.Protocol {
	case "dcf77":
		proto = radioclock.DCF77Protocol{}
	case "msf":
		proto = radioclock.MSFProtocol{}
	default:
		log.Fatal("unknown protocol", "protocol", cfg.Protocol)
	}

	if res := radioclock.RunSelfTest(proto); !res.Passed {
		log.Fatal("self-test failed", "protocol", res.Protocol, "detail", res.Detail)
	}
	log.Info("self-test passed", "protocol", proto.Name())

	persister := hostio.NewFilePersister(cfg.EEPROMPath)
	controller := radioclock.NewController(proto, persister)

	var source hostio.SampleSource
	switch {
	case cfg.GPIOChip != "":
		line, err := hostio.OpenGPIOLine(cfg.GPIOChip, cfg.GPIOLine, false)
		if err != nil {
			log.Fatal("open gpio line", "err", err)
		}
		defer line.Close()
		source = line
	default:
		audio, err := hostio.OpenAudioCarrierDetect(cfg.AudioDevice, 48000, 0.05)
		if err != nil {
			log.Fatal("open audio input", "err", err)
		}
		defer audio.Close()
		source = audio
	}

	tickGen := hostio.NewHostTickGenerator(source)

	var emitter *hostio.NMEAEmitter
	if cfg.NMEADevice != "" {
		emitter, err = hostio.OpenNMEAEmitter()
		if err != nil {
			log.Warn("nmea emitter disabled", "err", err)
		} else {
			defer emitter.Close()
			log.Info("nmea emitter ready", "slave_path", emitter.SlavePath())
		}
	}

	var announcer *hostio.Announcer
	if cfg.DiscoveryName != "" {
		announcer, err = hostio.Announce(cfg.DiscoveryName, 0)
		if err != nil {
			log.Warn("dns-sd announce failed", "err", err)
		} else {
			defer announcer.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lastSecond := -1
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		default:
		}

		carrierOff := tickGen.Sample()
		controller.Tick(carrierOff)

		t := controller.ReadTime()
		if t.Second != lastSecond {
			lastSecond = t.Second
			log.Debug(radioclock.DebugLine(proto.Name(), t, controller.State(), controller.MinuteQuality()))
			if emitter != nil && t.Minute.Valid() && t.Hour.Valid() {
				_ = emitter.Emit(t.Hour.Int(), t.Minute.Int(), t.Second, t.Day.Int(), t.Month.Int(), t.Year.Int())
			}
		}
	}
}
