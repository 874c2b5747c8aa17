package domain

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/3Titanes/playclips-sample/pkg/errors"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ParseCatalog decodes a metadata.json document. Influencers and videos are
// ordered the way a JavaScript object enumerates its keys: array-index keys
// first in ascending numeric order, then the remaining keys in document order.
// A repeated key keeps its first position and its last value.
func ParseCatalog(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		var raw json.RawMessage
		cause := json.Unmarshal(data, &raw)
		return nil, errors.NewMetadataParseError("metadata is not valid JSON", "", cause)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.NewMetadataParseError("metadata root must be an object", "", nil)
	}

	catalog := &Catalog{
		Generation:  uuid.NewString(),
		influencers: make(map[string]*InfluencerRecord),
	}

	var parseErr error
	root.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		rec, err := parseInfluencer(id, value)
		if err != nil {
			parseErr = err
			return false
		}
		if _, seen := catalog.influencers[id]; !seen {
			catalog.ids = append(catalog.ids, id)
		}
		catalog.influencers[id] = rec
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	catalog.ids = naturalKeyOrder(catalog.ids)

	return catalog, nil
}

func parseInfluencer(id string, value gjson.Result) (*InfluencerRecord, error) {
	if !value.IsObject() {
		return nil, errors.NewMetadataParseError("influencer must be an object", id, nil)
	}

	fields := objectFields(value)

	name, ok := fields["name"]
	if !ok || name.Type != gjson.String {
		return nil, errors.NewMetadataParseError("name must be a string", id+".name", nil)
	}

	rec := &InfluencerRecord{
		Name:   name.Str,
		videos: make(map[string]VideoRecord),
	}

	if thumb, ok := fields["thumbnail"]; ok && thumb.Type != gjson.Null {
		if thumb.Type != gjson.String {
			return nil, errors.NewMetadataParseError("thumbnail must be a string", id+".thumbnail", nil)
		}
		rec.Thumbnail = thumb.Str
	}

	videos, ok := fields["videos"]
	if !ok || !videos.IsObject() {
		return nil, errors.NewMetadataParseError("videos must be an object", id+".videos", nil)
	}

	var parseErr error
	videos.ForEach(func(key, value gjson.Result) bool {
		videoID := key.String()
		video, err := parseVideo(fmt.Sprintf("%s.videos.%s", id, videoID), value)
		if err != nil {
			parseErr = err
			return false
		}
		if _, seen := rec.videos[videoID]; !seen {
			rec.videoIDs = append(rec.videoIDs, videoID)
		}
		rec.videos[videoID] = video
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	rec.videoIDs = naturalKeyOrder(rec.videoIDs)

	return rec, nil
}

func parseVideo(path string, value gjson.Result) (VideoRecord, error) {
	if !value.IsObject() {
		return VideoRecord{}, errors.NewMetadataParseError("video must be an object", path, nil)
	}

	fields := objectFields(value)

	location, ok := fields["location"]
	if !ok || location.Type != gjson.String {
		return VideoRecord{}, errors.NewMetadataParseError("location must be a string", path+".location", nil)
	}

	weight, ok := fields["weight"]
	if !ok || weight.Type != gjson.Number {
		return VideoRecord{}, errors.NewMetadataParseError("weight must be a number", path+".weight", nil)
	}

	tags, ok := fields["tags"]
	if !ok || !tags.IsArray() {
		return VideoRecord{}, errors.NewMetadataParseError("tags must be an array", path+".tags", nil)
	}

	elems := tags.Array()
	rec := VideoRecord{
		Location: location.Str,
		Weight:   weight.Num,
		Tags:     make([]string, 0, len(elems)),
	}
	for i, tag := range elems {
		if tag.Type != gjson.String {
			return VideoRecord{}, errors.NewMetadataParseError("tag must be a string", fmt.Sprintf("%s.tags.%d", path, i), nil)
		}
		rec.Tags = append(rec.Tags, tag.Str)
	}

	return rec, nil
}

// maxArrayIndex is the largest key JavaScript treats as an array index (2^32-2).
const maxArrayIndex = 1<<32 - 2

// arrayIndex reports whether key is the canonical decimal form of an array
// index, and its value.
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(key, 10, 64)
	if err != nil || n > maxArrayIndex {
		return 0, false
	}
	return n, true
}

// naturalKeyOrder moves array-index keys to the front in ascending numeric
// order. The other keys keep their relative order.
func naturalKeyOrder(keys []string) []string {
	slices.SortStableFunc(keys, func(a, b string) int {
		ai, aok := arrayIndex(a)
		bi, bok := arrayIndex(b)
		switch {
		case aok && bok:
			return cmp.Compare(ai, bi)
		case aok:
			return -1
		case bok:
			return 1
		}
		return 0
	})
	return keys
}

// objectFields indexes the members of an object by key without going through
// gjson path syntax, so keys containing '.', '*' or '?' are matched literally.
func objectFields(obj gjson.Result) map[string]gjson.Result {
	fields := make(map[string]gjson.Result)
	obj.ForEach(func(key, value gjson.Result) bool {
		fields[key.String()] = value
		return true
	})
	return fields
}
