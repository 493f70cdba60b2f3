package servicenow

// Incident is a single ticket record from the instance. Deployments
// disagree about which fields their scripted API returns, so records stay
// opaque mappings with accessors for the handful of fields the pipeline
// actually reads. Missing or non-string values fall back to the same
// placeholders operators see in the generated reports.
type Incident map[string]any

func (in Incident) stringField(key, fallback string) string {
	v, ok := in[key]
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

// Number returns the incident id, e.g. "INC0010023".
func (in Incident) Number() string {
	return in.stringField("number", "N/A")
}

// ShortDescription returns the one-line problem description.
func (in Incident) ShortDescription() string {
	return in.stringField("short_description", "No description")
}

// State returns the backend-defined lifecycle state.
func (in Incident) State() string {
	return in.stringField("state", "Unknown")
}

// AssignmentGroup returns the owning group, if any.
func (in Incident) AssignmentGroup() string {
	return in.stringField("assignment_group", "Unassigned")
}

// CmdbCI returns the affected configuration item, if any.
func (in Incident) CmdbCI() string {
	return in.stringField("cmdb_ci", "No CI")
}
