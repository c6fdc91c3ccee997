package search

// Extractors for server-rendered result pages. Every entry except images is
// anchored on the link inside its heading.

const (
	headingLinkSelector = "h3 a[href]"
	contentSelector     = "p.content"
	enginesSelector     = "div.engines"
)

func headingRecord(kind Category, n Node) (*Record, bool) {
	link := n.Child(headingLinkSelector)
	if !link.Exists() {
		return nil, false
	}
	return newRecord(kind, link.Text(), link.Attr("href")), true
}

func documentEngines(n Node) []string {
	return texts(n.Child(enginesSelector), "span")
}

// summaryDocument covers categories whose entries are a heading, a content
// paragraph and the list of contributing engines.
func summaryDocument(kind Category, n Node, extra func(rec *Record, description string)) (*Record, bool) {
	rec, ok := headingRecord(kind, n)
	if !ok {
		return nil, false
	}
	description := n.Child(contentSelector).Text()
	rec.setString("description", description)
	if extra != nil {
		extra(rec, description)
	}
	rec.setList("engines", documentEngines(n))
	return rec, true
}

func extractGeneralDocument(n Node) (*Record, bool) {
	return summaryDocument(CategoryGeneral, n, nil)
}

func extractScienceDocument(n Node) (*Record, bool) {
	return summaryDocument(CategoryScience, n, nil)
}

func extractITDocument(n Node) (*Record, bool) {
	return summaryDocument(CategoryIT, n, func(rec *Record, _ string) {
		rec.setMap("attributes", itAttributes(n.Child("div.attributes").RawText()))
	})
}

func extractFilesDocument(n Node) (*Record, bool) {
	return summaryDocument(CategoryFiles, n, func(rec *Record, _ string) {
		info := fileInfo(n.RawText())
		if _, ok := info.Get("has_magnet"); !ok && n.Child("a[href^='magnet:']").Exists() {
			info.Set("has_magnet", true)
		}
		rec.setMap("fileInfo", info)
	})
}

func extractSocialDocument(n Node) (*Record, bool) {
	return summaryDocument(CategorySocialMedia, n, func(rec *Record, description string) {
		rec.setList("hashtags", hashtags(description))
	})
}

func extractNewsDocument(n Node) (*Record, bool) {
	rec, ok := headingRecord(CategoryNews, n)
	if !ok {
		return nil, false
	}
	rec.setString("dateSource", n.Child("div.highlight").Text())
	rec.setString("description", n.Child(contentSelector).Text())
	rec.setList("engines", documentEngines(n))
	return rec, true
}

func extractImageDocument(n Node) (*Record, bool) {
	link := n.Child("a[href]")
	if !link.Exists() {
		return nil, false
	}

	img := n.Child("img.image_thumbnail")
	title := img.Attr("alt")
	if title == "" {
		title = n.Child("span.title").Text()
	}

	rec := newRecord(CategoryImages, title, link.Attr("href"))
	rec.setString("thumbnail", img.Attr("src"))
	rec.setString("source", n.Child("span.source").Text())
	rec.setString("engine", n.Child("p.result-engine span").NextText())
	return rec, true
}

func extractVideoDocument(n Node) (*Record, bool) {
	rec, ok := headingRecord(CategoryVideos, n)
	if !ok {
		return nil, false
	}
	rec.setString("thumbnail", n.Child("img.thumbnail").Attr("src"))
	rec.setString("length", stripLabel(n.Child("div.result_length").Text(), lengthLabels))
	rec.setString("author", stripLabel(n.Child("div.result_author").Text(), authorLabels))
	return rec, true
}

func extractMapDocument(n Node) (*Record, bool) {
	rec, ok := headingRecord(CategoryMap, n)
	if !ok {
		return nil, false
	}

	details := NewExtras()
	for _, row := range n.Child("table").All("tr") {
		cells := row.All("th, td")
		if len(cells) < 2 {
			continue
		}
		key, value := cells[0].Text(), cells[1].Text()
		if key == "" || value == "" {
			continue
		}
		details.Set(key, value)
	}
	rec.setMap("details", details)
	rec.setList("engines", documentEngines(n))
	return rec, true
}

func extractMusicDocument(n Node) (*Record, bool) {
	rec, ok := headingRecord(CategoryMusic, n)
	if !ok {
		return nil, false
	}
	rec.setString("thumbnail", n.Child("img").Attr("src"))
	rec.setString("published", afterMarker(n.Child(contentSelector).Text(), publishedMarker))
	rec.setList("engines", documentEngines(n))
	return rec, true
}
