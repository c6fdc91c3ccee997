package search

import (
	"fmt"

	"github.com/janhq/freesearch-mcp/utils/platformerrors"
)

// Extractor pulls one normalized record out of a raw result node. It reports
// false when the node lacks the minimum fields for its category; such nodes
// are dropped rather than treated as errors.
type Extractor func(n Node) (*Record, bool)

type extractorKey struct {
	category Category
	shape    Shape
}

var extractors = map[extractorKey]Extractor{
	{CategoryGeneral, ShapeDocument}:     extractGeneralDocument,
	{CategoryNews, ShapeDocument}:        extractNewsDocument,
	{CategoryImages, ShapeDocument}:      extractImageDocument,
	{CategoryVideos, ShapeDocument}:      extractVideoDocument,
	{CategoryMap, ShapeDocument}:         extractMapDocument,
	{CategoryMusic, ShapeDocument}:       extractMusicDocument,
	{CategoryIT, ShapeDocument}:          extractITDocument,
	{CategoryScience, ShapeDocument}:     extractScienceDocument,
	{CategoryFiles, ShapeDocument}:       extractFilesDocument,
	{CategorySocialMedia, ShapeDocument}: extractSocialDocument,

	{CategoryGeneral, ShapeStructured}:     extractGeneralStructured,
	{CategoryNews, ShapeStructured}:        extractNewsStructured,
	{CategoryImages, ShapeStructured}:      extractImageStructured,
	{CategoryVideos, ShapeStructured}:      extractVideoStructured,
	{CategoryMap, ShapeStructured}:         extractMapStructured,
	{CategoryMusic, ShapeStructured}:       extractMusicStructured,
	{CategoryIT, ShapeStructured}:          extractITStructured,
	{CategoryScience, ShapeStructured}:     extractScienceStructured,
	{CategoryFiles, ShapeStructured}:       extractFilesStructured,
	{CategorySocialMedia, ShapeStructured}: extractSocialStructured,
}

// ExtractorFor returns the extractor registered for a category and shape.
func ExtractorFor(category Category, shape Shape) (Extractor, bool) {
	ex, ok := extractors[extractorKey{category: category, shape: shape}]
	return ex, ok
}

// Extract runs the matching extractor over every node of rs, keeping source
// order and discarding nodes the extractor rejects.
func Extract(category Category, rs *ResultSet) ([]*Record, error) {
	if rs.Empty() {
		return nil, nil
	}

	ex, ok := ExtractorFor(category, rs.Shape)
	if !ok {
		return nil, platformerrors.NewError(platformerrors.LayerDomain, platformerrors.ErrorTypeUnexpected,
			fmt.Sprintf("no extractor for %s results in %s shape", category, rs.Shape), nil)
	}

	records := make([]*Record, 0, len(rs.Nodes))
	for _, node := range rs.Nodes {
		if node == nil {
			continue
		}
		if rec, ok := ex(node); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}
