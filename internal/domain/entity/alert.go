package entity

// AlertStatus is the user action recorded on an alert. Empty means active.
type AlertStatus string

const (
	AlertStatusActive    AlertStatus = ""
	AlertStatusSnoozed   AlertStatus = "snoozed"
	AlertStatusAccepted  AlertStatus = "accepted"
	AlertStatusDismissed AlertStatus = "dismissed"
)

// Alert is an action item surfaced for a group.
type Alert struct {
	ID       string      `json:"id,omitempty"`
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	URL      string      `json:"url,omitempty"`
	Status   AlertStatus `json:"status,omitempty"`
}

// IsActive reports whether nobody acted on the alert yet.
func (a Alert) IsActive() bool {
	return a.Status == AlertStatusActive
}

// ActiveAlerts returns the alerts with no recorded status.
func ActiveAlerts(alerts []Alert) []Alert {
	active := []Alert{}
	for _, a := range alerts {
		if a.IsActive() {
			active = append(active, a)
		}
	}
	return active
}

// CountByStatus conta os alertas agrupados por status.
func CountByStatus(alerts []Alert) map[AlertStatus]int {
	counts := make(map[AlertStatus]int)
	for _, a := range alerts {
		counts[a.Status]++
	}
	return counts
}
