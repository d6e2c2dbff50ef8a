// Package harness runs scenario-driven conformance tests against the
// dispatch loop.
//
// A scenario is a YAML file listing submissions (method, positional args,
// keyword args) and the expected outcome of each (status, value, failure
// kind). The harness builds a real loop with deterministic event ids,
// submits every step, collects outcomes in submission order, and evaluates
// the expectations. The resulting trace can additionally be compared
// against a golden file for byte-exact conformance.
package harness
