package gateway

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Decode maps an envelope's untyped Data payload onto a typed struct. Field
// names follow the json tags the models already carry; timestamps arrive as
// RFC 3339 strings.
func Decode(data any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
