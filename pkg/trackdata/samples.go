package trackdata

// LocationSample is a single recorded fix. Altitude is 0 when unknown.
type LocationSample struct {
	Latitude  float64 `groups:"basic"`
	Longitude float64 `groups:"basic"`
	Altitude  float64 `groups:"basic"`
}

// MetricSample is aligned by index with the LocationSample captured at the same moment.
// Nil pointers mean the sensor had no reading for that point.
type MetricSample struct {
	ElapsedMillis int64 `groups:"basic"`

	Speed     *float64 `groups:"basic"`
	HeartRate *int     `groups:"basic"`
	Cadence   *int     `groups:"basic"`
}

// HasHeartRate reports whether a usable heart rate reading exists, non-positive values mean unknown
func (m *MetricSample) HasHeartRate() bool {
	return m != nil && m.HeartRate != nil && *m.HeartRate > 0
}

// MetricAt returns the metric aligned with location index i, or nil if the metric sequence is shorter
func MetricAt(metrics []MetricSample, i int) *MetricSample {
	if i < 0 || i >= len(metrics) {
		return nil
	}

	return &metrics[i]
}
