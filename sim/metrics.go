// Aggregates a run's finish/drop/lateness counts for a quick end-of-run
// summary. Engine tallies these directly as records are emitted, in
// emit(), independent of which sink is attached.
package sim

import "fmt"

// Metrics summarizes one run's outcome for reporting to the CLI.
type Metrics struct {
	Admitted int
	Finished int
	Late     int
	Dropped  int
}

// Print displays the summary in the terse table style the rest of the CLI
// output uses.
func (m Metrics) Print() {
	fmt.Println("=== Run Summary ===")
	fmt.Printf("Admitted : %d\n", m.Admitted)
	fmt.Printf("Finished : %d (late: %d)\n", m.Finished, m.Late)
	fmt.Printf("Dropped  : %d\n", m.Dropped)
}
