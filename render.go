package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/vlove/vlove/wire"
)

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

var (
	pianoLabel   = colorize("[PIANO]", colorBlue)
	gestureLabel = colorize("[GESTURE]", colorMagenta)
)

const (
	meterCells = 10
	meterMax   = 4095 // 12 bit ADC
)

// renderTelemetry draws one meter per finger on a single line, overwriting
// the previous one.
func renderTelemetry(w io.Writer, t wire.Telemetry) {
	var b strings.Builder
	for _, v := range t.Mapped {
		level := v * meterCells / meterMax
		if level < 0 {
			level = 0
		} else if level > meterCells {
			level = meterCells
		}
		b.WriteString(" ")
		b.WriteString(colorize(strings.Repeat("█", level), colorGreen))
		b.WriteString(strings.Repeat("░", meterCells-level))
		b.WriteString(" ")
	}
	fmt.Fprintf(w, "\r%s", b.String())
}

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
