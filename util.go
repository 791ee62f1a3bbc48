package sfnt

import (
	"encoding/hex"
	"log/slog"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func hexstr(data []byte) string {
	if data == nil {
		return "<nil>"
	} else if len(data) == 0 {
		return "<empty>"
	} else {
		return hex.EncodeToString(data)
	}
}

func hexAttr(key string, data []byte) slog.Attr {
	return slog.String(key, hexstr(data))
}
