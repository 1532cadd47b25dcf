// Package analytics turns a link's raw click history into per-category
// counts. Aggregation always runs over the full history handed to it; there
// is no windowing, so cost grows linearly with the number of clicks.
package analytics

import (
	"net/url"
	"sort"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gamassss/slinkr/pkg/detector"
)

const Direct = "Direct"

func Summarize(clicks []domain.Click) domain.AnalyticsSummary {
	summary := domain.AnalyticsSummary{
		Browsers:  make(map[string]int64),
		Devices:   make(map[string]int64),
		Referrers: make(map[string]int64),
	}

	for _, click := range clicks {
		summary.Browsers[detector.ClassifyBrowser(click.UserAgent)]++
		summary.Devices[detector.ClassifyDevice(click.UserAgent)]++
		summary.Referrers[ReferrerBucket(click.Referer)]++
	}

	return summary
}

// ReferrerBucket is the aggregation key for a raw referer header value.
func ReferrerBucket(referer string) string {
	if referer == "" {
		return Direct
	}
	return referer
}

// ReferrerHost is the display form of a referrer bucket. Malformed values
// are returned unchanged.
func ReferrerHost(referrer string) string {
	if referrer == Direct || referrer == "" {
		return Direct
	}

	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return referrer
	}

	return u.Hostname()
}

// Buckets flattens a summary map ordered by count, ties broken by name.
func Buckets(counts map[string]int64, label func(string) string) []domain.Bucket {
	buckets := make([]domain.Bucket, 0, len(counts))
	for name, count := range counts {
		b := domain.Bucket{Name: name, Label: name, Count: count}
		if label != nil {
			b.Label = label(name)
		}
		buckets = append(buckets, b)
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Name < buckets[j].Name
	})

	return buckets
}
