// Package display renders the node's two-line character LCD.
//
// Two modes exist. Status mode clears and shows two short messages; it is
// used during boot and around uploads. Readings mode overwrites both lines in
// place every tick (padded to the width, never cleared) so the screen does
// not flicker. Writes are fire-and-forget.
package display

import (
	"math"

	"flownix-node/services/sensors"
	"flownix-node/x/conv"
	"flownix-node/x/strx"
)

// Degree sign in the HD44780 A00 character ROM.
const degree = "\xdf"

// LCD is the subset of tinygo.org/x/drivers/hd44780i2c.Device used here.
type LCD interface {
	SetCursor(x, y uint8)
	Print(data []byte)
	ClearDisplay()
}

type Display struct {
	lcd    LCD
	cols   int
	status bool
}

// New wraps an already configured LCD of cols columns. Only the first two
// rows are used.
func New(lcd LCD, cols uint8) *Display {
	if cols == 0 {
		cols = 16
	}
	return &Display{lcd: lcd, cols: int(cols)}
}

// Status clears the screen and shows a (line 1) and b (line 2), each cut to
// the display width.
func (d *Display) Status(a, b string) {
	d.lcd.ClearDisplay()
	d.lcd.SetCursor(0, 0)
	d.lcd.Print([]byte(strx.Cut(a, d.cols)))
	d.lcd.SetCursor(0, 1)
	d.lcd.Print([]byte(strx.Cut(b, d.cols)))
	d.status = true
}

// Readings overwrites both lines with the live view. Leaving status mode
// clears once first.
func (d *Display) Readings(c sensors.Climate, distanceCM int32) {
	if d.status {
		d.lcd.ClearDisplay()
		d.status = false
	}
	l1, l2 := ReadingsLines(c, distanceCM)
	d.lcd.SetCursor(0, 0)
	d.lcd.Print([]byte(strx.Fit(l1, d.cols)))
	d.lcd.SetCursor(0, 1)
	d.lcd.Print([]byte(strx.Fit(l2, d.cols)))
}

// Clear blanks the screen and leaves status mode.
func (d *Display) Clear() {
	d.lcd.ClearDisplay()
	d.status = false
}

// InStatus reports whether a status message is on screen.
func (d *Display) InStatus() bool { return d.status }

// ReadingsLines formats the live view, unpadded:
//
//	T:23.5°C H:45%
//	Water:123cm
func ReadingsLines(c sensors.Climate, distanceCM int32) (string, string) {
	var buf [22]byte

	l1 := make([]byte, 0, 24)
	l1 = append(l1, "T:"...)
	if t := float64(c.TempC); math.IsNaN(t) || math.IsInf(t, 0) {
		l1 = append(l1, "nan"...)
	} else {
		l1 = append(l1, conv.Deci(buf[:], int64(math.Round(t*10)))...)
	}
	l1 = append(l1, degree+"C H:"...)
	if h := float64(c.Humidity); math.IsNaN(h) || math.IsInf(h, 0) {
		l1 = append(l1, "nan"...)
	} else {
		l1 = append(l1, conv.Itoa(buf[:], int64(h))...)
	}
	l1 = append(l1, "% "...)

	l2 := make([]byte, 0, 16)
	l2 = append(l2, "Water:"...)
	l2 = append(l2, conv.Itoa(buf[:], int64(distanceCM))...)
	l2 = append(l2, "cm"...)

	return string(l1), string(l2)
}
