package health

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"rpi-dashboard/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FanState is reported by the collector as free text ("1", "N/A", a PWM
// percentage). Numeric values are accepted and kept as their text form.
type FanState string

func (f *FanState) UnmarshalJSON(b []byte) error {
	v := gjson.ParseBytes(b)
	switch v.Type {
	case gjson.Null:
		*f = ""
	case gjson.String:
		*f = FanState(v.Str)
	default:
		*f = FanState(v.Raw)
	}
	return nil
}

type Reading struct {
	ID             string    `json:"_id"`
	DeviceID       string    `json:"deviceId"`
	Timestamp      time.Time `json:"timestamp"`
	Temperature    float64   `json:"temperature"`
	CPUFrequency   float64   `json:"cpuFrequency"`
	FanState       FanState  `json:"fanState"`
	ThrottleStatus string    `json:"throttleStatus"`
}

func (r *Reading) UnmarshalJSON(b []byte) error {
	type alias Reading
	aux := struct {
		*alias
		Timestamp jsoniter.RawMessage `json:"timestamp"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	// Unparseable or missing timestamps are left zero.
	r.Timestamp, _ = utils.ParseTimestamp(gjson.ParseBytes(aux.Timestamp))
	return nil
}

// Stats aggregates readings over a trailing window. Fields stay nil until
// the backend has data for them.
type Stats struct {
	AvgTemp *float64 `json:"avgTemp"`
	MaxTemp *float64 `json:"maxTemp"`
	MinTemp *float64 `json:"minTemp"`
	AvgFreq *float64 `json:"avgFreq"`
	MaxFreq *float64 `json:"maxFreq"`
	Count   *int64   `json:"count"`
}

// Snapshot is what one telemetry refresh produces. The three parts are
// replaced together or not at all.
type Snapshot struct {
	Latest    *Reading
	Recent    []Reading
	Stats     *Stats
	FetchedAt time.Time
}
