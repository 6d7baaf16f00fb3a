package hostio

/*------------------------------------------------------------------
 *
 * Purpose: Emit the decoded time as NMEA $GPZDA sentences over a
 *          pseudo-terminal, so existing GPS-consuming software (chrony,
 *          gpsd, navigation tools) can treat this library as just
 *          another time source. Grounded on kiss.go's pty.Open() usage
 *          and dwgpsnmea.go's NMEA sentence construction/checksum.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/creack/pty"
)

// NMEAEmitter owns a pty pair; the slave side's path is what a
// consumer should open (or symlink to, e.g. /dev/gpsclock0).
type NMEAEmitter struct {
	master *os.File
	slave  *os.File
}

// OpenNMEAEmitter allocates a pty pair for NMEA output.
func OpenNMEAEmitter() (*NMEAEmitter, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("hostio: open pty: %w", err)
	}
	return &NMEAEmitter{master: master, slave: slave}, nil
}

// SlavePath returns the pty slave's device path for symlinking.
func (n *NMEAEmitter) SlavePath() string { return n.slave.Name() }

// Emit writes one $GPZDA sentence for (hour, minute, second, day,
// month, year) in UTC, with a trailing NMEA checksum.
func (n *NMEAEmitter) Emit(hour, minute, second, day, month, year int) error {
	body := fmt.Sprintf("GPZDA,%02d%02d%02d.00,%02d,%02d,%04d,00,00", hour, minute, second, day, month, 2000+year)
	sentence := fmt.Sprintf("$%s*%02X\r\n", body, nmeaChecksum(body))
	_, err := n.master.WriteString(sentence)
	return err
}

func nmeaChecksum(body string) byte {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum ^= body[i]
	}
	return sum
}

// Close releases both ends of the pty.
func (n *NMEAEmitter) Close() error {
	_ = n.slave.Close()
	return n.master.Close()
}
