package main

/*------------------------------------------------------------------
 *
 * Purpose: radioclock-sim — drives the decoder from the encoder's own
 *          output instead of a real receiver, for demoing and manually
 *          exercising the lock/sync pipeline without hardware.
 *          Grounded on cmd/direwolf/main.go's flat main shape and
 *          fx25_send_test.go's "encode, corrupt, decode" test pattern
 *          (here run live instead of as a test assertion).
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	radioclock "radioclock/src"
)

func main() {
	protocolName := pflag.StringP("protocol", "p", "dcf77", "dcf77 or msf")
	noisePct := pflag.Int("noise", 0, "percent chance of flipping an individual 1 kHz sample")
	seconds := pflag.Int("seconds", 600, "how many simulated seconds to run")
	pflag.Parse()

	var proto radioclock.Protocol
	switch *protocolName {
	case "dcf77":
		proto = radioclock.DCF77Protocol{}
	case "msf":
		proto = radioclock.MSFProtocol{}
	default:
		log.Fatal("unknown protocol", "protocol", *protocolName)
	}

	persister := &memoryPersister{}
	controller := radioclock.NewController(proto, persister)

	reference := &radioclock.TimeData{
		Minute:  radioclock.IntToBCD(58),
		Hour:    radioclock.IntToBCD(23),
		Day:     radioclock.IntToBCD(28),
		Month:   radioclock.IntToBCD(2),
		Year:    radioclock.IntToBCD(24),
		Weekday: radioclock.IntToBCD(radioclock.Wednesday),
	}
	reference.Weekday = radioclock.Weekday(reference)

	rng := rand.New(rand.NewSource(1))

	second := 0
	for s := 0; s < *seconds; s++ {
		tick := proto.GetCurrentSignal(reference, second)
		for ms := 0; ms < 1000; ms++ {
			carrierOff := sampleForTick(tick, ms)
			if *noisePct > 0 && rng.Intn(100) < *noisePct {
				carrierOff = !carrierOff
			}
			controller.Tick(carrierOff)
		}

		second++
		if second > 59 {
			second = 0
			radioclock.AdvanceMinute(reference)
		}

		t := controller.ReadTime()
		fmt.Println(radioclock.DebugLine(proto.Name(), t, controller.State(), controller.MinuteQuality()))
		time.Sleep(time.Millisecond) // keep simulated output readable
	}
}

// sampleForTick renders a classified tick back into a plausible
// 1 kHz carrier-off/on waveform for the given millisecond offset, the
// inverse of the tick classifier's windowing.
func sampleForTick(tick radioclock.Tick, ms int) bool {
	switch tick {
	case radioclock.TickShort:
		return ms < 100
	case radioclock.TickLong:
		return ms < 200
	case radioclock.TickSync:
		return false
	case radioclock.TickMinMarker:
		return ms < 500
	case radioclock.TickA0B0:
		return ms < 100
	case radioclock.TickA0B1:
		return ms < 100 || (ms >= 200 && ms < 300)
	case radioclock.TickA1B0:
		return ms < 200
	case radioclock.TickA1B1:
		return ms < 300
	default:
		return ms < 100
	}
}

type memoryPersister struct {
	raw [8]byte
	set bool
}

func (m *memoryPersister) Load() ([8]byte, bool) { return m.raw, m.set }
func (m *memoryPersister) Store(raw [8]byte)     { m.raw = raw; m.set = true }
