package canvas

import "encoding/hex"

// hexToRGB decodes a 6-character uppercase hex string into 3 raw bytes.
func hexToRGB(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
