package harness

import (
	"errors"
	"time"

	"github.com/watershed117/eventloop/internal/registry"
)

// DemoRegistry builds the standard method set used by scenarios, the CLI
// demo command, and the conformance tests.
//
// Methods:
//   - add(arg1 int, arg2 int) -> int
//   - greet(name string, greeting string = "hello") -> string
//   - ping() -> "pong"
//   - sleep(millis int) -> nil (blocks the worker for the duration)
//   - fail(message string) -> error (always fails)
func DemoRegistry() *registry.Registry {
	reg := registry.New()

	mustRegister(reg, "add", func(a, b int) int {
		return a + b
	}, registry.Required("arg1"), registry.Required("arg2"))

	mustRegister(reg, "greet", func(name, greeting string) string {
		return greeting + ", " + name
	}, registry.Required("name"), registry.Optional("greeting", "hello"))

	mustRegister(reg, "ping", func() string {
		return "pong"
	})

	mustRegister(reg, "sleep", func(millis int) {
		time.Sleep(time.Duration(millis) * time.Millisecond)
	}, registry.Required("millis"))

	mustRegister(reg, "fail", func(message string) error {
		return errors.New(message)
	}, registry.Required("message"))

	return reg
}

// mustRegister panics on registration failure. The demo registry is built
// from static definitions, so a failure is a programming error.
func mustRegister(reg *registry.Registry, name string, fn any, params ...registry.Param) {
	if err := reg.Register(name, fn, params...); err != nil {
		panic(err)
	}
}
