package domain

import (
	"slices"

	"github.com/3Titanes/playclips-sample/internal/selection"
)

// Quality is the value substituted for the {quality} placeholder of a video location.
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

func (q Quality) String() string {
	return string(q)
}

func (q Quality) IsValid() bool {
	switch q {
	case QualityHigh, QualityMedium, QualityLow:
		return true
	default:
		return false
	}
}

type VideoRecord struct {
	Location string   `json:"location"`
	Weight   float64  `json:"weight"`
	Tags     []string `json:"tags"`
}

// Video is a VideoRecord augmented with its identifier.
type Video struct {
	ID string `json:"id"`
	VideoRecord
}

func (v Video) HasTag(tag string) bool {
	return slices.Contains(v.Tags, tag)
}

// Selectable reports whether the video contributes selection mass.
func (v Video) Selectable() bool {
	return selection.Eligible(v.Weight)
}

type InfluencerRecord struct {
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail,omitempty"`

	videoIDs []string
	videos   map[string]VideoRecord
}

// VideoIDs returns the video identifiers in key order.
func (r *InfluencerRecord) VideoIDs() []string {
	return slices.Clone(r.videoIDs)
}

func (r *InfluencerRecord) Video(id string) (Video, bool) {
	rec, ok := r.videos[id]
	if !ok {
		return Video{}, false
	}
	rec.Tags = slices.Clone(rec.Tags)
	return Video{ID: id, VideoRecord: rec}, true
}

func (r *InfluencerRecord) VideoCount() int {
	return len(r.videoIDs)
}

// Catalog is a loaded metadata document. It is never mutated after ParseCatalog
// returns; accessors hand out copies.
type Catalog struct {
	Generation string

	ids         []string
	influencers map[string]*InfluencerRecord
}

// InfluencerIDs returns identifiers in key order.
func (c *Catalog) InfluencerIDs() []string {
	return slices.Clone(c.ids)
}

func (c *Catalog) Influencer(id string) (*InfluencerRecord, bool) {
	rec, ok := c.influencers[id]
	return rec, ok
}

func (c *Catalog) Len() int {
	return len(c.ids)
}
