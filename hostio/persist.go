package hostio

/*------------------------------------------------------------------
 *
 * Purpose: File-backed realization of the core's Persister interface
 *          (spec.md 1, "load/store for a small calibration record").
 *          A real embedded target backs this with an actual EEPROM
 *          byte-write API; on a hosted OS a small flat file serves the
 *          same "whole record, rewritten" contract.
 *
 *------------------------------------------------------------------*/

import (
	"os"

	radioclock "radioclock/src"
)

// FilePersister implements radioclock.Persister against a flat file
// holding exactly the 8-byte calibration record.
type FilePersister struct {
	path string
}

var _ radioclock.Persister = (*FilePersister)(nil)

// NewFilePersister wraps path, which need not exist yet.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Load reads the record; ok is false if the file is missing or not
// exactly 8 bytes (treated as "never written" by the caller).
func (f *FilePersister) Load() (raw [8]byte, ok bool) {
	data, err := os.ReadFile(f.path)
	if err != nil || len(data) != 8 {
		return raw, false
	}
	copy(raw[:], data)
	return raw, true
}

// Store overwrites the file with raw, matching the "rewrite the whole
// record" EEPROM write model.
func (f *FilePersister) Store(raw [8]byte) {
	_ = os.WriteFile(f.path, raw[:], 0o644)
}
