package hostio

/*------------------------------------------------------------------
 *
 * Purpose: Hotplug detection for USB-attached receiver modules/sound
 *          cards, so radioclockd can wait for the device rather than
 *          failing at startup. Grounded on go.mod's jochenvg/go-udev,
 *          carried by the teacher for the same purpose but never
 *          exercised in the retrieved source.
 *
 *------------------------------------------------------------------*/

import (
	"context"

	"github.com/jochenvg/go-udev"
)

// WaitForDevice blocks until a udev device matching subsystem/devtype
// appears (action "add") or ctx is cancelled.
func WaitForDevice(ctx context.Context, subsystem, devtype string) (devicePath string, err error) {
	u := udev.Udev{}
	monitor := u.NewMonitorFromNetlink("udev")
	if err := monitor.FilterAddMatchSubsystemDevtype(subsystem, devtype); err != nil {
		return "", err
	}

	devices, stop := monitor.DeviceChan(ctx)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case dev, ok := <-devices:
			if !ok {
				return "", context.Canceled
			}
			if dev.Action() == "add" {
				return dev.Devnode(), nil
			}
		}
	}
}
