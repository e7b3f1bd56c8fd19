package meili

import (
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/petal-labs/meili/core"
)

// decode copies a decoded JSON value (maps, slices, float64...) into the
// typed struct out, matching fields on their json tags. RFC 3339 strings
// become time.Time.
func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     out,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return &core.DecodingError{Err: err}
	}
	return nil
}
