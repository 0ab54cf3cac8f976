package command

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/yndnr/famcheck-go/internal/cli/output"
)

// writeMetrics prints every sample gathered from reg as a table.
// Histograms are summarized by count and sum.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	table := &output.Table{Headers: []string{"METRIC", "LABELS", "VALUE"}}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				table.AddRow(mf.GetName(), labels, formatFloat(m.GetCounter().GetValue()))
			case dto.MetricType_GAUGE:
				table.AddRow(mf.GetName(), labels, formatFloat(m.GetGauge().GetValue()))
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				table.AddRow(mf.GetName()+"_count", labels, strconv.FormatUint(h.GetSampleCount(), 10))
				table.AddRow(mf.GetName()+"_sum", labels, formatFloat(h.GetSampleSum()))
			}
		}
	}
	sort.SliceStable(table.Rows, func(i, j int) bool { return table.Rows[i][0] < table.Rows[j][0] })

	return table.Render(w)
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	return strings.Join(parts, ",")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
