package triage

import (
	"strings"

	"snowtriage/internal/servicenow"
)

// Category names a heuristic triage bucket.
type Category string

const (
	CategorySAP      Category = "sap_issues"
	CategoryNetwork  Category = "network_issues"
	CategoryEmail    Category = "email_issues"
	CategoryHardware Category = "hardware_issues"
	CategorySoftware Category = "software_issues"
	CategoryOther    Category = "other_issues"
)

// Categories lists every bucket in rule-priority order.
var Categories = []Category{
	CategorySAP,
	CategoryNetwork,
	CategoryEmail,
	CategoryHardware,
	CategorySoftware,
	CategoryOther,
}

// Ordered keyword rules; the first rule whose keyword appears in the
// lower-cased short description wins. These are intentionally plain
// substring tests - a triage aid, not ground truth.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategorySAP, []string{"sap"}},
	{CategoryNetwork, []string{"network", "wireless", "vpn", "dns"}},
	{CategoryEmail, []string{"email", "exchange", "outlook"}},
	{CategoryHardware, []string{"server", "hardware", "memory", "laptop"}},
	{CategorySoftware, []string{"software", "application", "app"}},
}

// Classify groups incidents into mutually exclusive category buckets.
// It is a pure function of its input: every incident lands in exactly one
// bucket and bucket contents preserve input order.
func Classify(incidents []servicenow.Incident) map[Category][]servicenow.Incident {
	buckets := make(map[Category][]servicenow.Incident, len(Categories))
	for _, inc := range incidents {
		cat := categorize(inc)
		buckets[cat] = append(buckets[cat], inc)
	}
	return buckets
}

func categorize(inc servicenow.Incident) Category {
	desc := strings.ToLower(inc.ShortDescription())
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
