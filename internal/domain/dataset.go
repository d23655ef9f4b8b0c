package domain

import "fmt"

// Dataset selects which pair of timer/history collections is active
type Dataset string

const (
	DatasetReal Dataset = "real"
	DatasetDemo Dataset = "demo"
)

// ParseDataset parses a dataset name
func ParseDataset(s string) (Dataset, error) {
	switch Dataset(s) {
	case DatasetReal, DatasetDemo:
		return Dataset(s), nil
	}
	return "", fmt.Errorf("unknown dataset %q", s)
}
