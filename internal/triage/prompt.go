package triage

import (
	"fmt"
	"strings"

	"snowtriage/internal/servicenow"
)

// PromptStyle selects which instruction template a summary request uses.
type PromptStyle string

const (
	// PromptFull asks for the four-section operations report.
	PromptFull PromptStyle = "full"
	// PromptConcise asks for a short free-form summary.
	PromptConcise PromptStyle = "concise"
)

const fullPromptTemplate = `Analyze the following list of %d high-priority incidents from ServiceNow and provide a comprehensive triage summary.

INCIDENTS:
%s

Please provide your analysis in the following format:

## 🚨 CRITICAL ISSUES REQUIRING IMMEDIATE ATTENTION
[List the most urgent issues that need immediate response]

## 📊 INCIDENT PATTERNS & CLUSTERS
[Identify related incidents that might indicate broader systemic issues]

## 🎯 RECOMMENDED ACTIONS
[Provide specific next steps for each major issue or group of issues]

## ⚠️ POTENTIAL IMPACT ASSESSMENT
[Assess business impact and user impact of major issues]

Focus on actionable insights and prioritization for IT operations teams.`

const concisePromptTemplate = `Analyze the following list of high-priority incidents from ServiceNow and provide a concise summary.

Here is the list of incidents:
%s

Your summary should include:
1. The most urgent types of issues.
2. The suggested next best action for each incident or group of incidents (e.g., assign, escalate, monitor).
3. Any noticeable patterns or related incidents.`

// BuildPrompt renders the deterministic prompt for a batch of incidents.
// The full style groups incidents by state with one line per incident; the
// concise style emits a flat list. Unknown styles fall back to full.
func BuildPrompt(style PromptStyle, incidents []servicenow.Incident) string {
	if style == PromptConcise {
		return fmt.Sprintf(concisePromptTemplate, formatFlat(incidents))
	}
	return fmt.Sprintf(fullPromptTemplate, len(incidents), formatByState(incidents))
}

// formatByState emits a header per state group, states in first-seen
// order, then one line per incident in input order.
func formatByState(incidents []servicenow.Incident) string {
	var order []string
	byState := make(map[string][]servicenow.Incident)
	for _, inc := range incidents {
		state := inc.State()
		if _, seen := byState[state]; !seen {
			order = append(order, state)
		}
		byState[state] = append(byState[state], inc)
	}

	var sections []string
	for _, state := range order {
		sections = append(sections, fmt.Sprintf("\n--- %s Incidents ---", state))
		for _, inc := range byState[state] {
			sections = append(sections, fmt.Sprintf("- %s: %s (Assigned: %s, CI: %s)",
				inc.Number(), inc.ShortDescription(), inc.AssignmentGroup(), inc.CmdbCI()))
		}
	}
	return strings.Join(sections, "\n")
}

func formatFlat(incidents []servicenow.Incident) string {
	lines := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		lines = append(lines, fmt.Sprintf("- %s: %s (State: %s)",
			inc.Number(), inc.ShortDescription(), inc.State()))
	}
	return strings.Join(lines, "\n")
}
