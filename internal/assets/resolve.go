package assets

import (
	"net/url"
	"strings"

	"github.com/3Titanes/playclips-sample/internal/catalog"
	"github.com/3Titanes/playclips-sample/internal/constants"
	"github.com/3Titanes/playclips-sample/internal/domain"
)

// VideoURL builds the playable URL of a video location: the first {quality}
// placeholder is replaced and the result is appended to baseURL.
func VideoURL(baseURL, location string, quality domain.Quality) string {
	return baseURL + strings.Replace(location, constants.CatalogConfig.QualityPlaceholder, quality.String(), 1)
}

// ThumbnailURL resolves a thumbnail path against baseURL. Absolute URLs are
// returned unchanged; an empty thumbnail stays empty.
func ThumbnailURL(baseURL, thumbnail string) string {
	if thumbnail == "" {
		return ""
	}
	if u, err := url.Parse(thumbnail); err == nil && u.IsAbs() {
		return thumbnail
	}
	return baseURL + thumbnail
}

// Targets lists the playable URL of every video of the given influencers.
func Targets(baseURL string, quality domain.Quality, influencers ...*catalog.Influencer) []Target {
	var targets []Target
	for _, inf := range influencers {
		for _, v := range inf.Videos() {
			targets = append(targets, Target{
				InfluencerID: inf.ID(),
				VideoID:      v.ID,
				URL:          VideoURL(baseURL, v.Location, quality),
			})
		}
	}
	return targets
}
