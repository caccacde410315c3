package messaging

type ChangeTopic string

const (
	TrackingTopic  ChangeTopic = "tracking"
	CatalogChanged ChangeTopic = "catalog_changed"
)

type RabbitConfig struct {
	Url    string
	Prefix string
}

// CatalogChange is published when products behind the search API changed
// and cached responses are stale.
type CatalogChange struct {
	Categories []string `json:"categories,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}
