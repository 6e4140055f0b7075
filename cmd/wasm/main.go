//go:build js && wasm
// +build js,wasm

package main

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
)

// Error codes returned to JavaScript
const (
	ErrorNone = iota
	ErrorInvalidArgs
	ErrorParse
	ErrorDomain
	ErrorProcessing
)

// Lists harmonics of one open string.
// Args: openString, maxHarmonic[, octave]
// Returns: {error: number, data: array | string}
func harmonicsTable(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected at least 2 arguments: openString, maxHarmonic")
	}
	if args[0].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "openString must be a string")
	}
	if args[1].Type() != js.TypeNumber {
		return makeErrorResponse(ErrorInvalidArgs, "maxHarmonic must be a number")
	}
	region := harmonics.NoRegion
	if len(args) > 2 && !args[2].IsUndefined() && !args[2].IsNull() {
		if args[2].Type() != js.TypeNumber || args[2].Int() < 1 {
			return makeErrorResponse(ErrorInvalidArgs, "octave must be a positive number")
		}
		region = args[2].Int() - 1
	}

	open, err := pitch.ParseAbsolute(args[0].String())
	if err != nil {
		return makeFailure(err)
	}
	var rows []harmonics.HarmonicRow
	if region == harmonics.NoRegion {
		rows, err = harmonics.HarmonicsTable(open, args[1].Int(), pitch.TieDown)
	} else {
		rows, err = harmonics.HarmonicsTableInRegion(open, args[1].Int(), region, pitch.TieDown)
	}
	if err != nil {
		return makeFailure(err)
	}

	rowArray := js.Global().Get("Array").New()
	for i, row := range rows {
		rowObj := js.Global().Get("Object").New()
		rowObj.Set("harmonic", row.Harmonic)
		rowObj.Set("sounds", pitch.Format(row.Sounding.Pitch, pitch.Fifths))
		rowObj.Set("cents", row.Sounding.Cents)
		rowObj.Set("interval", pitch.Interval(row.Steps))

		nodeArray := js.Global().Get("Array").New()
		for j, node := range row.Nodes {
			nodeArray.SetIndex(j, nodeObject(node))
		}
		rowObj.Set("nodes", nodeArray)
		rowArray.SetIndex(i, rowObj)
	}
	return makeResponse(rowArray)
}

// Finds every harmonic fingering of a pitch.
// Args: pitch, strings, maxHarmonic, toleranceCents
// Returns: {error: number, data: array | string}
func positionsNearPitch(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 4 arguments: pitch, strings, maxHarmonic, toleranceCents")
	}
	if args[0].Type() != js.TypeString || args[1].Type() != js.TypeString {
		return makeErrorResponse(ErrorInvalidArgs, "pitch and strings must be strings")
	}
	if args[2].Type() != js.TypeNumber || args[3].Type() != js.TypeNumber {
		return makeErrorResponse(ErrorInvalidArgs, "maxHarmonic and toleranceCents must be numbers")
	}

	target, err := pitch.ParseAbsolute(args[0].String())
	if err != nil {
		return makeFailure(err)
	}
	tuning, err := harmonics.ResolveTuning(args[1].String())
	if err != nil {
		return makeFailure(err)
	}
	positions, err := harmonics.PositionsNearPitch(tuning, target, args[2].Int(), args[3].Float(), pitch.TieDown)
	if err != nil {
		return makeFailure(err)
	}

	posArray := js.Global().Get("Array").New()
	for i, p := range positions {
		posObj := js.Global().Get("Object").New()
		posObj.Set("string", p.String+1)
		posObj.Set("open", pitch.Format(p.Open, pitch.Fifths))
		posObj.Set("harmonic", p.Harmonic)
		posObj.Set("sounds", pitch.Format(p.Sounding.Pitch, pitch.Fifths))
		posObj.Set("cents", p.Sounding.Cents)
		posObj.Set("node", nodeObject(p.Node))
		posArray.SetIndex(i, posObj)
	}
	return makeResponse(posArray)
}

func nodeObject(node harmonics.Node) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("index", node.Index)
	obj.Set("position", node.Position)
	obj.Set("fingeredNote", pitch.Format(node.Match.Pitch, pitch.Fifths))
	obj.Set("cents", node.Match.Cents)
	obj.Set("octave", node.Region+1)
	return obj
}

func makeResponse(data js.Value) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", data)
	return result
}

func makeFailure(err error) js.Value {
	switch {
	case errors.Is(err, harmonics.ErrParse):
		return makeErrorResponse(ErrorParse, err.Error())
	case errors.Is(err, harmonics.ErrDomain):
		return makeErrorResponse(ErrorDomain, err.Error())
	default:
		return makeErrorResponse(ErrorProcessing, fmt.Sprintf("Processing failed: %v", err))
	}
}

func makeErrorResponse(errorCode int, message string) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", errorCode)
	result.Set("data", message)
	return result
}

func main() {
	console := js.Global().Get("console")
	if !console.IsUndefined() {
		console.Call("log", "🔧 StringHarmonics WASM module initializing...")
	}

	done := make(chan struct{})

	js.Global().Set("harmonicsTable", js.FuncOf(harmonicsTable))
	js.Global().Set("positionsNearPitch", js.FuncOf(positionsNearPitch))

	window := js.Global().Get("window")
	if !window.IsUndefined() {
		eventInit := js.Global().Get("Object").New()
		event := js.Global().Get("CustomEvent").New("wasmReady", eventInit)
		window.Call("dispatchEvent", event)
	} else if !console.IsUndefined() {
		console.Call("error", "❌ window object is undefined!")
	}

	if !console.IsUndefined() {
		console.Call("log", "✅ StringHarmonics WASM module loaded and ready")
	}

	<-done
}
