package sample

import (
	"github.com/montanaflynn/stats"
)

// Summary describes one column.
type Summary struct {
	Name   string
	Mean   float64
	StdDev float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe summarizes every column.
func (s *Sample) Describe() ([]Summary, error) {
	out := make([]Summary, s.Dim())
	for j := range out {
		sum, err := Describe(s.names[j], s.Column(j))
		if err != nil {
			return nil, err
		}
		out[j] = sum
	}

	return out, nil
}

// Describe summarizes one column of values.
func Describe(name string, data []float64) (Summary, error) {
	sum := Summary{Name: name}
	var err error
	if sum.Mean, err = stats.Mean(data); err != nil {
		return sum, err
	}
	if sum.StdDev, err = stats.StandardDeviationSample(data); err != nil {
		return sum, err
	}
	if sum.Min, err = stats.Min(data); err != nil {
		return sum, err
	}
	if sum.Max, err = stats.Max(data); err != nil {
		return sum, err
	}
	if sum.Median, err = stats.Median(data); err != nil {
		return sum, err
	}
	if sum.Q25, err = stats.Percentile(data, 25); err != nil {
		return sum, err
	}
	if sum.Q75, err = stats.Percentile(data, 75); err != nil {
		return sum, err
	}

	return sum, nil
}
