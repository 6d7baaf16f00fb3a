package hostio

/*------------------------------------------------------------------
 *
 * Purpose: Receiver tuning, for setups using a general-coverage radio
 *          (rather than a dedicated DCF77/MSF module) as the front
 *          end. Grounded on go.mod's xylo04/goHamlib, carried by the
 *          teacher for CAT control of an attached radio but never
 *          exercised in the retrieved source.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/xylo04/goHamlib"
)

// Frequencies of the two broadcasts this library decodes.
const (
	DCF77FrequencyHz = 77500
	MSFFrequencyHz   = 60000
)

// Tuner drives a Hamlib-controlled radio to the chosen broadcast's
// carrier frequency and leaves it there; there is no channel changing
// once running.
type Tuner struct {
	rig *goHamlib.Rig
}

// OpenTuner opens the rig at device path using the given Hamlib model
// id and tunes it to frequencyHz.
func OpenTuner(modelID int, device string, frequencyHz int) (*Tuner, error) {
	rig := goHamlib.NewRig(modelID)
	rig.SetConf("rig_pathname", device)
	if err := rig.Open(); err != nil {
		return nil, fmt.Errorf("hostio: open rig: %w", err)
	}
	if err := rig.SetFreq(goHamlib.VFOCurr, float64(frequencyHz)); err != nil {
		rig.Close()
		return nil, fmt.Errorf("hostio: set frequency: %w", err)
	}
	if err := rig.SetMode(goHamlib.VFOCurr, goHamlib.ModeAM, goHamlib.PassbandNarrow); err != nil {
		rig.Close()
		return nil, fmt.Errorf("hostio: set mode: %w", err)
	}
	return &Tuner{rig: rig}, nil
}

// Close releases the rig handle.
func (t *Tuner) Close() error {
	return t.rig.Close()
}
