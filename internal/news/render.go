package news

import (
	"sort"
	"strings"
)

// Render formats version records as one changelog page.
//
// Versions render in the order received. The first version is expanded and
// every later one sits inside a collapsible container; this assumes the
// input is most-recent-first. A changelog authored oldest-first renders with
// the oldest version expanded, which is the documented behavior rather than
// something this function corrects.
//
// Categories render in lexicographic order regardless of authoring order:
// the page is stable however the changelog was written.
func Render(versions []*Version, repo string) string {
	var b strings.Builder
	b.WriteString("# Changelog\n")

	for i, v := range versions {
		label := headerLabel(v)
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("## " + label + "\n")
			renderCategories(&b, v, repo)
		} else {
			b.WriteString("<details>\n<summary>" + label + "</summary>\n")
			renderCategories(&b, v, repo)
			b.WriteString("\n</details>\n")
		}
	}
	return b.String()
}

func headerLabel(v *Version) string {
	if v.Date != "" {
		return v.Label + " (" + v.Date + ")"
	}
	return v.Label
}

func renderCategories(b *strings.Builder, v *Version, repo string) {
	names := make([]string, 0, len(v.Categories))
	for name := range v.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		items := v.Categories[name]
		if len(items) == 0 {
			continue
		}
		b.WriteString("\n### " + name + "\n\n")
		for _, item := range items {
			b.WriteString("- " + LinkRefs(item, repo) + "\n")
		}
	}
}
