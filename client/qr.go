package main

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// InviteURL is the relay address a second participant joins with
func InviteURL(relay, room string) string {
	u, err := RelayURL(relay, room)
	if err != nil {
		return relay
	}
	return u
}

// inviteBitmap returns the QR modules for content, true for dark
func inviteBitmap(content string) ([][]bool, error) {
	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return nil, err
	}
	return q.Bitmap(), nil
}

// halfBlocks packs two bitmap rows into each text line
func halfBlocks(bits [][]bool) []string {
	var lines []string
	for y := 0; y < len(bits); y += 2 {
		var b strings.Builder
		for x := range bits[y] {
			top := bits[y][x]
			bottom := y+1 < len(bits) && bits[y+1][x]
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
