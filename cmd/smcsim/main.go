// Command smcsim drives the secure memory controller's testable
// properties (spec §8, scenarios S1-S6) through a real event-driven
// simulation and reports which ones hold.
package main

func main() {
	Execute()
}
