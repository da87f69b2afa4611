package models

import "time"

// ResultEvent is published to the results queue once per processed image.
type ResultEvent struct {
	RunID       string     `json:"run_id"`
	Folder      string     `json:"folder"`
	Result      ItemResult `json:"result"`
	PublishedAt time.Time  `json:"published_at"`
}
