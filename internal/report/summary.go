// Package report aggregates the record set into per-region summaries and
// renders them as a markdown digest.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"

	"routeboard/domain/delivery"
)

// RegionSummary holds the aggregate counters for one region plus summary
// statistics over the individual delivery percentages.
type RegionSummary struct {
	Region             delivery.Region `json:"region"`
	Drivers            int             `json:"drivers"`
	Routes             int             `json:"routes"`
	TotalOrders        int             `json:"totalOrders"`
	Delivered          int             `json:"delivered"`
	Pending            int             `json:"pending"`
	Unsuccessful       int             `json:"unsuccessful"`
	DeliveryPercentage int             `json:"deliveryPercentage"`
	MeanDeliveryPct    float64         `json:"meanDeliveryPct"`
	MedianDeliveryPct  float64         `json:"medianDeliveryPct"`
	P90DeliveryPct     float64         `json:"p90DeliveryPct"`
}

// Summary is the full digest: one row per region plus the overall totals.
type Summary struct {
	Regions []RegionSummary `json:"regions"`
	Overall RegionSummary   `json:"overall"`
}

// regionOrder fixes the display order of the report rows.
var regionOrder = []delivery.Region{
	delivery.RegionDafiti,
	delivery.RegionSaoPaulo,
	delivery.RegionRio,
	delivery.RegionNespresso,
}

// Build computes the per-region and overall summaries from the record set.
// Regions with no records are omitted.
func Build(records []delivery.Record) Summary {
	byRegion := map[delivery.Region][]delivery.Record{}
	for _, rec := range records {
		byRegion[rec.Region] = append(byRegion[rec.Region], rec)
	}

	summary := Summary{Regions: []RegionSummary{}}
	for _, region := range regionOrder {
		group, ok := byRegion[region]
		if !ok {
			continue
		}
		summary.Regions = append(summary.Regions, summarize(region, group))
		delete(byRegion, region)
	}

	// Regions outside the known set (custom rules files) sort by name.
	extra := make([]delivery.Region, 0, len(byRegion))
	for region := range byRegion {
		extra = append(extra, region)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, region := range extra {
		summary.Regions = append(summary.Regions, summarize(region, byRegion[region]))
	}

	summary.Overall = summarize("Total", records)
	return summary
}

func summarize(region delivery.Region, records []delivery.Record) RegionSummary {
	s := RegionSummary{Region: region, Drivers: len(records)}

	percentages := make([]float64, 0, len(records))
	for _, rec := range records {
		s.Routes += rec.Routes
		s.TotalOrders += rec.TotalOrders
		s.Delivered += rec.Delivered
		s.Pending += rec.Pending
		s.Unsuccessful += rec.Unsuccessful
		percentages = append(percentages, float64(rec.DeliveryPercentage))
	}
	s.DeliveryPercentage = delivery.Percentage(s.Delivered, s.TotalOrders)

	if len(percentages) > 0 {
		// stats only errors on empty input, which is guarded above.
		s.MeanDeliveryPct, _ = stats.Mean(percentages)
		s.MedianDeliveryPct, _ = stats.Median(percentages)
		s.P90DeliveryPct, _ = stats.Percentile(percentages, 90)
	}

	return s
}

// Markdown renders the summary as a markdown table digest.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("# Delivery Summary\n\n")

	if s.Overall.Drivers == 0 {
		b.WriteString("No records imported yet.\n")
		return b.String()
	}

	b.WriteString("| Region | Drivers | Routes | Orders | Delivered | Pending | Unsuccessful | Delivery % | Mean % | Median % | P90 % |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|---|\n")
	for _, row := range append(s.Regions, s.Overall) {
		b.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %d | %d | %d%% | %.1f | %.1f | %.1f |\n",
			row.Region, row.Drivers, row.Routes, row.TotalOrders,
			row.Delivered, row.Pending, row.Unsuccessful,
			row.DeliveryPercentage,
			row.MeanDeliveryPct, row.MedianDeliveryPct, row.P90DeliveryPct))
	}

	return b.String()
}

// HTML renders the markdown digest to a standalone HTML fragment.
func (s Summary) HTML() []byte {
	extensions := parser.CommonExtensions | parser.Tables
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(s.Markdown()))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
