package reviewclient

import "time"

// Invoice status values as serialized by the review API.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
)

// Invoice mirrors the review API's invoice wire shape. The client keeps its
// own types so importers never depend on the server's internal packages.
type Invoice struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	Vendor     string    `json:"vendor"`
	Amount     int64     `json:"amount"`
	Date       string    `json:"date"`
	Status     string    `json:"status"`
	Anomalies  []Anomaly `json:"anomalies"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Anomaly mirrors the review API's anomaly wire shape.
type Anomaly struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Resolved    bool   `json:"resolved"`
}

// AllResolved reports whether every anomaly on the invoice is resolved.
func (i Invoice) AllResolved() bool {
	for idx := range i.Anomalies {
		if !i.Anomalies[idx].Resolved {
			return false
		}
	}
	return true
}
