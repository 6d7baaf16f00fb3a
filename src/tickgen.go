package radioclock

/*------------------------------------------------------------------
 *
 * Purpose: The 1 kHz tick generator's interface (component L,
 *          spec.md 1/2: "out of core scope but its interface matters").
 *          Platform glue (hostio/) implements this against a real
 *          timer or an audio sample clock; the core only depends on
 *          the interface.
 *
 *------------------------------------------------------------------*/

// TickGenerator produces 1000 samples/second and accepts the frequency
// trim computed by FrequencyControl.
type TickGenerator interface {
	// Sample returns the next 1 kHz carrier-off/on boolean sample.
	Sample() bool

	// AdjustReload steers the next tick's timer reload by one step
	// (±4 us) per FrequencyControl.Tick's reloadStepDelta.
	AdjustReload(stepDelta int)
}
