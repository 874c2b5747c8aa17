package catalog

import (
	"maps"
	"slices"

	"github.com/3Titanes/playclips-sample/internal/domain"
	"github.com/3Titanes/playclips-sample/internal/selection"
)

// Influencer is a read-only projection of one influencer of a loaded catalog.
// It stays bound to the catalog generation it was created from; every
// accessor recomputes its result from that immutable snapshot.
type Influencer struct {
	catalog *domain.Catalog
	id      string
	record  *domain.InfluencerRecord
	random  selection.Source
}

func newInfluencer(c *domain.Catalog, id string, rec *domain.InfluencerRecord, random selection.Source) *Influencer {
	return &Influencer{
		catalog: c,
		id:      id,
		record:  rec,
		random:  random,
	}
}

func (i *Influencer) ID() string {
	return i.id
}

func (i *Influencer) Name() string {
	return i.record.Name
}

func (i *Influencer) Thumbnail() string {
	return i.record.Thumbnail
}

// Generation is the catalog generation this view reads from.
func (i *Influencer) Generation() string {
	return i.catalog.Generation
}

func (i *Influencer) String() string {
	return i.record.Name
}

// Videos lists the influencer's videos in catalog key order.
func (i *Influencer) Videos() []domain.Video {
	ids := i.record.VideoIDs()
	videos := make([]domain.Video, 0, len(ids))
	for _, id := range ids {
		v, _ := i.record.Video(id)
		videos = append(videos, v)
	}
	return videos
}

// Tags is the sorted, deduplicated union of all video tags.
func (i *Influencer) Tags() []string {
	set := make(map[string]struct{})
	for _, v := range i.Videos() {
		for _, tag := range v.Tags {
			set[tag] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// TagCounts maps each tag to the number of videos carrying it.
func (i *Influencer) TagCounts() map[string]int {
	counts := make(map[string]int)
	for _, v := range i.Videos() {
		seen := make(map[string]struct{}, len(v.Tags))
		for _, tag := range v.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			counts[tag]++
		}
	}
	return counts
}

// VideosForTag returns the videos tagged with tag (exact match), possibly none.
func (i *Influencer) VideosForTag(tag string) []domain.Video {
	matches := make([]domain.Video, 0)
	for _, v := range i.Videos() {
		if v.HasTag(tag) {
			matches = append(matches, v)
		}
	}
	return matches
}

// ChooseVideoForTag picks one of the videos tagged with tag with probability
// proportional to its weight. It reports false when no video matches or the
// matching videos carry no positive weight.
func (i *Influencer) ChooseVideoForTag(tag string) (domain.Video, bool) {
	return i.ChooseVideoForTagFrom(i.random, tag)
}

// ChooseVideoForTagFrom is ChooseVideoForTag with an explicit random source.
func (i *Influencer) ChooseVideoForTagFrom(src selection.Source, tag string) (domain.Video, bool) {
	return selection.Choose(src, i.VideosForTag(tag), videoWeight)
}

func videoWeight(v domain.Video) float64 {
	return v.Weight
}
