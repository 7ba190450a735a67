// Package usage defines the usage metadata records apps attach to
// processing results for billing and reporting.
package usage

// Record describes one consumed resource.
type Record struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Tokens reports n consumed tokens.
func Tokens(n int) Record {
	return Record{Type: "tokens", Value: float64(n)}
}

// Images reports n generated images.
func Images(n int) Record {
	return Record{Type: "images", Value: float64(n)}
}

// AudioSeconds reports s seconds of processed audio.
func AudioSeconds(s float64) Record {
	return Record{Type: "audio", Value: s, Unit: "seconds"}
}

// VideoSeconds reports s seconds of processed video.
func VideoSeconds(s float64) Record {
	return Record{Type: "video", Value: s, Unit: "seconds"}
}

// Custom reports an arbitrary resource type.
func Custom(typ string, value float64, unit string) Record {
	return Record{Type: typ, Value: value, Unit: unit}
}
