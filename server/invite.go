package main

import (
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const inviteSize = 256

// InviteURL is the connect address a second participant uses to join room
func InviteURL(publicURL, room string) string {
	base := strings.TrimRight(publicURL, "/")
	return base + "/ws?room=" + url.QueryEscape(room)
}

// InvitePNG renders the invite URL as a QR code
func InvitePNG(publicURL, room string) ([]byte, error) {
	return qrcode.Encode(InviteURL(publicURL, room), qrcode.Medium, inviteSize)
}
