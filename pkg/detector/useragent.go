package detector

import "strings"

const (
	Unknown = "Unknown"
	Other   = "Other"
)

// rule matches when the user agent contains every substring in all and none
// of the substrings in none. Rules are evaluated in order, first match wins,
// so the order of a table is part of its meaning: Chrome user agents also
// contain "Safari", Edge user agents also contain "Chrome".
type rule struct {
	label string
	all   []string
	none  []string
	any   []string
}

var browserRules = []rule{
	{label: "Firefox", all: []string{"Firefox"}},
	{label: "Chrome", all: []string{"Chrome"}, none: []string{"Edg"}},
	{label: "Safari", all: []string{"Safari"}, none: []string{"Chrome"}},
	{label: "Edge", all: []string{"Edg"}},
	{label: "Internet Explorer", any: []string{"MSIE", "Trident"}},
}

var deviceRules = []rule{
	{label: "iPhone", all: []string{"iPhone"}},
	{label: "iPad", all: []string{"iPad"}},
	{label: "Android Phone", all: []string{"Android", "Mobile"}},
	{label: "Android Tablet", all: []string{"Android"}},
	{label: "Windows", all: []string{"Windows"}},
	{label: "Mac", all: []string{"Macintosh"}},
	{label: "Linux", all: []string{"Linux"}},
}

func ClassifyBrowser(userAgent string) string {
	return classify(browserRules, userAgent)
}

func ClassifyDevice(userAgent string) string {
	return classify(deviceRules, userAgent)
}

func classify(rules []rule, userAgent string) string {
	if userAgent == "" {
		return Unknown
	}

	for _, r := range rules {
		if r.matches(userAgent) {
			return r.label
		}
	}

	return Other
}

func (r rule) matches(ua string) bool {
	for _, s := range r.all {
		if !strings.Contains(ua, s) {
			return false
		}
	}

	for _, s := range r.none {
		if strings.Contains(ua, s) {
			return false
		}
	}

	if len(r.any) == 0 {
		return true
	}

	for _, s := range r.any {
		if strings.Contains(ua, s) {
			return true
		}
	}

	return false
}
