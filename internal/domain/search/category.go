package search

import "fmt"

// Category is one of the content domains a search can be scoped to.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryNews
	CategoryImages
	CategoryVideos
	CategoryMap
	CategoryMusic
	CategoryIT
	CategoryScience
	CategoryFiles
	CategorySocialMedia
)

type categoryInfo struct {
	param             string // value sent in the aggregator's "categories" field
	tag               string // record kind emitted in rendered output
	defaultSafeSearch int
}

var categories = map[Category]categoryInfo{
	CategoryGeneral:     {param: "general", tag: "general", defaultSafeSearch: 1},
	CategoryNews:        {param: "news", tag: "news", defaultSafeSearch: 1},
	CategoryImages:      {param: "images", tag: "image"},
	CategoryVideos:      {param: "videos", tag: "video"},
	CategoryMap:         {param: "map", tag: "map"},
	CategoryMusic:       {param: "music", tag: "music"},
	CategoryIT:          {param: "it", tag: "it"},
	CategoryScience:     {param: "science", tag: "science"},
	CategoryFiles:       {param: "files", tag: "file"},
	CategorySocialMedia: {param: "social media", tag: "social_media"},
}

// AllCategories lists every category in tool registration order.
func AllCategories() []Category {
	return []Category{
		CategoryGeneral, CategoryNews, CategoryImages, CategoryVideos, CategoryMap,
		CategoryMusic, CategoryIT, CategoryScience, CategoryFiles, CategorySocialMedia,
	}
}

// Param returns the aggregator's name for the category.
func (c Category) Param() string {
	return categories[c].param
}

// Tag returns the record kind used in rendered output.
func (c Category) Tag() string {
	return categories[c].tag
}

// DefaultSafeSearch is 1 for the general-purpose categories and 0 for the specialized ones.
func (c Category) DefaultSafeSearch() int {
	return categories[c].defaultSafeSearch
}

func (c Category) String() string {
	if info, ok := categories[c]; ok {
		return info.param
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// ParseCategory maps an aggregator category name back to a Category.
func ParseCategory(name string) (Category, error) {
	for c, info := range categories {
		if info.param == name || info.tag == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}
