package metrics

import (
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes the registry's metrics in the text exposition format so a
// node_exporter textfile collector can pick them up after a one-shot build.
func WriteTextfile(path string, reg *prom.Registry) error {
	if path == "" {
		return nil
	}
	if reg == nil {
		return fmt.Errorf("write metrics textfile: nil registry")
	}
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
