//go:build js && wasm

// Command wasm exposes the brake test engine to the browser via WebAssembly.
// After loading, it registers a global JavaScript function:
//
//	runBrakeTest(jsonString) -> jsonString
//
// The input and output are JSON-encoded TestInput and TestLog respectively,
// matching the contract used by the CLI.
package main

import (
	"syscall/js"

	"github.com/cxd309/bcu-engine/internal/engine"
)

func main() {
	js.Global().Set("runBrakeTest", js.FuncOf(runBrakeTest))
	select {} // keep the WASM module alive until the page is closed
}

func runBrakeTest(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(args[0].String())
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
