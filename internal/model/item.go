package model

// Item represents a single entry of a media collection as reported to the
// client: resolved metadata plus live download telemetry.
type Item struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Thumbnail string     `json:"thumbnail"`
	Duration  string     `json:"duration"`
	Status    ItemStatus `json:"status"`
	Progress  float64    `json:"progress"` // 0 to 100
	Size      string     `json:"size"`     // human readable, "waiting..." until known
	Speed     string     `json:"speed"`    // e.g. "5.2MiB/s", "-" when idle
	ETA       string     `json:"eta"`      // e.g. "00:30", "-" when idle

	Formats          []Variant `json:"formats,omitempty"`
	SelectedFormatID string    `json:"selectedFormatId,omitempty"`
}

// Variant is one concrete encoding option for an item. Immutable once
// fetched; HasVideo/HasAudio decide which download flag branch applies.
type Variant struct {
	ID       string  `json:"id"`
	Ext      string  `json:"ext"`
	Height   int     `json:"height,omitempty"`
	FPS      float64 `json:"fps,omitempty"`
	Filesize int64   `json:"filesize,omitempty"`
	TBR      float64 `json:"tbr,omitempty"` // total bitrate in KBit/s
	HasVideo bool    `json:"hasVideo"`
	HasAudio bool    `json:"hasAudio"`
	Note     string  `json:"note,omitempty"`
}

// NewItem returns an Item in its initial pending state with the telemetry
// placeholders the client expects before any task has started.
func NewItem(id, title, thumbnail, duration string) Item {
	return Item{
		ID:        id,
		Title:     title,
		Thumbnail: thumbnail,
		Duration:  duration,
		Status:    StatusPending,
		Progress:  0,
		Size:      "waiting...",
		Speed:     "-",
		ETA:       "-",
	}
}
