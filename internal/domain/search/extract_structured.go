package search

// Extractors for the aggregator's JSON results. Fields missing from the
// payload default to empty values, so these only reject a missing node.

func structuredRecord(kind Category, n Node) (*Record, bool) {
	if n == nil || !n.Exists() {
		return nil, false
	}
	return newRecord(kind, n.Attr("title"), n.Attr("url")), true
}

// structuredEngines prefers the engines list and falls back to the single
// engine field.
func structuredEngines(n Node) []string {
	if engines := texts(n, "engines"); len(engines) > 0 {
		return engines
	}
	if engine := n.Attr("engine"); engine != "" {
		return []string{engine}
	}
	return nil
}

// firstAttr returns the first non-empty scalar among keys.
func firstAttr(n Node, keys ...string) string {
	for _, key := range keys {
		if v := n.Attr(key); v != "" {
			return v
		}
	}
	return ""
}

// objectExtras copies the scalar fields of a JSON object in source order.
func objectExtras(n Node) *Extras {
	out := NewExtras()
	for _, key := range n.Fields() {
		if v := n.Attr(key); v != "" {
			out.Set(key, v)
		}
	}
	return out
}

func summaryStructured(kind Category, n Node, extra func(rec *Record, description string)) (*Record, bool) {
	rec, ok := structuredRecord(kind, n)
	if !ok {
		return nil, false
	}
	description := n.Attr("content")
	rec.setString("description", description)
	if extra != nil {
		extra(rec, description)
	}
	rec.setList("engines", structuredEngines(n))
	return rec, true
}

func extractGeneralStructured(n Node) (*Record, bool) {
	return summaryStructured(CategoryGeneral, n, nil)
}

func extractNewsStructured(n Node) (*Record, bool) {
	return summaryStructured(CategoryNews, n, func(rec *Record, _ string) {
		rec.setString("published", n.Attr("publishedDate"))
	})
}

func extractScienceStructured(n Node) (*Record, bool) {
	return summaryStructured(CategoryScience, n, func(rec *Record, _ string) {
		rec.setString("published", n.Attr("publishedDate"))
		rec.setList("authors", texts(n, "authors"))
		rec.setString("journal", n.Attr("journal"))
		rec.setString("doi", n.Attr("doi"))
	})
}

func extractITStructured(n Node) (*Record, bool) {
	return summaryStructured(CategoryIT, n, func(rec *Record, _ string) {
		attrs := NewExtras()
		if v := n.Attr("package_name"); v != "" {
			attrs.Set("package", v)
		}
		if v := n.Attr("maintainer"); v != "" {
			attrs.Set("maintainer", v)
		}
		if v := n.Attr("version"); v != "" {
			attrs.Set("version", v)
		}
		rec.setMap("attributes", attrs)
	})
}

func extractFilesStructured(n Node) (*Record, bool) {
	return summaryStructured(CategoryFiles, n, func(rec *Record, _ string) {
		info := NewExtras()
		if v := n.Attr("seed"); v != "" {
			info.Set("seeds", v)
		}
		if v := n.Attr("leech"); v != "" {
			info.Set("leeches", v)
		}
		if v := n.Attr("filesize"); v != "" {
			info.Set("size", v)
		}
		if n.Attr("magnetlink") != "" {
			info.Set("has_magnet", true)
		}
		rec.setMap("fileInfo", info)
	})
}

func extractSocialStructured(n Node) (*Record, bool) {
	return summaryStructured(CategorySocialMedia, n, func(rec *Record, description string) {
		rec.setList("hashtags", hashtags(description))
	})
}

func extractImageStructured(n Node) (*Record, bool) {
	rec, ok := structuredRecord(CategoryImages, n)
	if !ok {
		return nil, false
	}
	rec.setString("thumbnail", firstAttr(n, "thumbnail_src", "thumbnail", "img_src"))
	rec.setString("img_src", n.Attr("img_src"))
	rec.setString("source", n.Attr("source"))
	rec.setString("resolution", n.Attr("resolution"))
	rec.setString("engine", n.Attr("engine"))
	return rec, true
}

func extractVideoStructured(n Node) (*Record, bool) {
	rec, ok := structuredRecord(CategoryVideos, n)
	if !ok {
		return nil, false
	}
	rec.setString("thumbnail", firstAttr(n, "thumbnail", "thumbnail_src"))
	rec.setString("length", n.Attr("length"))
	rec.setString("author", n.Attr("author"))
	rec.setString("published", n.Attr("publishedDate"))
	return rec, true
}

func extractMapStructured(n Node) (*Record, bool) {
	rec, ok := structuredRecord(CategoryMap, n)
	if !ok {
		return nil, false
	}
	if address := n.Child("address"); len(address.Fields()) > 0 {
		rec.setMap("address", objectExtras(address))
	} else {
		rec.setString("address", address.Text())
	}
	rec.setString("longitude", n.Attr("longitude"))
	rec.setString("latitude", n.Attr("latitude"))
	rec.setList("engines", structuredEngines(n))
	return rec, true
}

func extractMusicStructured(n Node) (*Record, bool) {
	rec, ok := structuredRecord(CategoryMusic, n)
	if !ok {
		return nil, false
	}
	rec.setString("thumbnail", firstAttr(n, "thumbnail", "img_src"))
	rec.setString("description", n.Attr("content"))
	rec.setString("published", n.Attr("publishedDate"))
	rec.setList("engines", structuredEngines(n))
	return rec, true
}
