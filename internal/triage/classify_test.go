package triage

import (
	"reflect"
	"testing"

	"snowtriage/internal/servicenow"
)

func incidentWithDesc(number, desc string) servicenow.Incident {
	return servicenow.Incident{
		"number":            number,
		"short_description": desc,
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want Category
	}{
		{name: "sap", desc: "SAP GUI crashes on launch", want: CategorySAP},
		{name: "sap beats network", desc: "SAP login failing over network", want: CategorySAP},
		{name: "network", desc: "Wireless dropping in building 4", want: CategoryNetwork},
		{name: "vpn", desc: "VPN tunnel down", want: CategoryNetwork},
		{name: "dns", desc: "DNS resolution slow", want: CategoryNetwork},
		{name: "email", desc: "Outlook not syncing", want: CategoryEmail},
		{name: "exchange", desc: "Exchange mailbox full", want: CategoryEmail},
		{name: "hardware", desc: "Laptop will not boot", want: CategoryHardware},
		{name: "memory", desc: "Server out of memory", want: CategoryHardware},
		{name: "network beats hardware", desc: "Network card failed on server", want: CategoryNetwork},
		{name: "software", desc: "Application error on save", want: CategorySoftware},
		{name: "app substring", desc: "Timesheet app frozen", want: CategorySoftware},
		{name: "no match", desc: "Printer jam on floor 2", want: CategoryOther},
		{name: "case insensitive", desc: "sAp PORTAL DOWN", want: CategorySAP},
		{name: "missing description", desc: "", want: CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc := incidentWithDesc("INC1", tt.desc)
			if tt.desc == "" {
				delete(inc, "short_description")
			}
			buckets := Classify([]servicenow.Incident{inc})
			if got := len(buckets[tt.want]); got != 1 {
				t.Errorf("expected incident in %s, buckets = %v", tt.want, buckets)
			}
		})
	}
}

func TestClassifyIsTotalAndExclusive(t *testing.T) {
	incidents := []servicenow.Incident{
		incidentWithDesc("INC1", "SAP transport stuck"),
		incidentWithDesc("INC2", "VPN down"),
		incidentWithDesc("INC3", "Email bouncing"),
		incidentWithDesc("INC4", "Laptop battery swollen"),
		incidentWithDesc("INC5", "Application crash loop"),
		incidentWithDesc("INC6", "Badge reader broken"),
	}

	buckets := Classify(incidents)

	total := 0
	for _, cat := range Categories {
		total += len(buckets[cat])
	}
	if total != len(incidents) {
		t.Errorf("every incident must land in exactly one bucket: classified %d of %d", total, len(incidents))
	}
}

func TestClassifyDeterministicAndOrderPreserving(t *testing.T) {
	incidents := []servicenow.Incident{
		incidentWithDesc("INC1", "dns outage east"),
		incidentWithDesc("INC2", "vpn flapping"),
		incidentWithDesc("INC3", "wireless auth errors"),
	}

	first := Classify(incidents)
	second := Classify(incidents)
	if !reflect.DeepEqual(first, second) {
		t.Error("Classify is not deterministic across runs")
	}

	network := first[CategoryNetwork]
	if len(network) != 3 {
		t.Fatalf("expected 3 network incidents, got %d", len(network))
	}
	for i, wantNumber := range []string{"INC1", "INC2", "INC3"} {
		if got := network[i].Number(); got != wantNumber {
			t.Errorf("bucket order[%d] = %s, want %s", i, got, wantNumber)
		}
	}
}
