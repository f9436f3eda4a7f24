package config

import (
	"regexp"
	"strings"

	git "github.com/go-git/go-git/v5"
)

var sshRemoteRx = regexp.MustCompile(`^(?:ssh://)?[\w.\-]+@[\w.\-]+[:/](.+?)(?:\.git)?$`)

// DetectRepo derives an `owner/name` slug from the origin remote of the git
// checkout at or above dir. It returns "" when there is no repository, no
// origin remote, or an unrecognized remote URL; detection failing is never
// an error, just nothing to link against.
func DetectRepo(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil || len(remote.Config().URLs) == 0 {
		return ""
	}
	return SlugFromRemote(remote.Config().URLs[0])
}

// SlugFromRemote extracts `owner/name` from an HTTPS or SSH remote URL.
func SlugFromRemote(url string) string {
	var path string
	switch {
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		parts := strings.SplitN(strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://"), "/", 2)
		if len(parts) != 2 {
			return ""
		}
		path = strings.TrimSuffix(parts[1], ".git")
	default:
		m := sshRemoteRx.FindStringSubmatch(url)
		if m == nil {
			return ""
		}
		path = m[1]
	}

	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) < 2 {
		return ""
	}
	// Keep the last two segments; forges can nest groups.
	return segs[len(segs)-2] + "/" + segs[len(segs)-1]
}
