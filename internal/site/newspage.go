package site

import (
	"log/slog"
	"path/filepath"

	rserrors "git.home.luguber.info/inful/refsite/internal/errors"
	"git.home.luguber.info/inful/refsite/internal/logfields"
	"git.home.luguber.info/inful/refsite/internal/news"
)

// renderNewsPage parses the changelog and renders the changelog page body.
// A missing changelog yields an empty body and no page; the decision that
// an empty changelog is not worth a page lives here, not in the parser.
//
// The renderer expands the first version and collapses the rest, which
// assumes the changelog is authored most-recent-first.
func (g *Generator) renderNewsPage() (string, error) {
	path := g.cfg.News.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(g.srcRoot, path)
	}
	versions, err := news.ParseFile(path)
	if err != nil {
		return "", rserrors.WrapFS(err, "failed to read changelog").WithContext("path", path)
	}
	if len(versions) == 0 {
		return "", nil
	}
	slog.Debug("Rendering changelog", logfields.Version(versions[0].Label), logfields.Count(len(versions)))
	return news.Render(versions, g.cfg.Site.Repo), nil
}
