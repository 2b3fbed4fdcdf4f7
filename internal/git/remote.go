package git

import (
	"net/url"
	"strings"
)

// Origin names of the hosting services with known web URL layouts.
const (
	OriginGitHub           = "github"
	OriginGitLab           = "gitlab"
	OriginGitLabSelfHosted = "gitlab-self-hosted"
	OriginBitbucket        = "bitbucket"
)

// Remote is the web view of a repository's origin remote.
type Remote struct {
	// Origin is one of the Origin* names, or the bare host for other services.
	Origin string
	// WebURL is the browsable https URL of the repository, without
	// credentials or a .git suffix.
	WebURL string
}

// ParseRemote derives the web location of a remote URL. Local paths and
// file URLs have no web location.
func ParseRemote(raw string) (Remote, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Remote{}, false
	}

	scheme, host, path, ok := splitRemote(raw)
	if !ok {
		return Remote{}, false
	}
	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	if host == "" || path == "" {
		return Remote{}, false
	}

	return Remote{
		Origin: classifyHost(host),
		WebURL: scheme + "://" + host + "/" + path,
	}, true
}

// splitRemote accepts URL forms (https, http, ssh, git) and the scp-like
// form user@host:path.
func splitRemote(raw string) (scheme, host, path string, ok bool) {
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", "", false
		}
		switch strings.ToLower(u.Scheme) {
		case "http":
			return "http", strings.ToLower(u.Host), u.Path, true
		case "https":
			return "https", strings.ToLower(u.Host), u.Path, true
		case "ssh", "git", "git+ssh", "ssh+git":
			// SSH ports do not carry over to the web server.
			return "https", strings.ToLower(u.Hostname()), u.Path, true
		default:
			return "", "", "", false
		}
	}

	at := strings.Index(raw, "@")
	colon := strings.Index(raw, ":")
	if colon <= 0 || (at >= 0 && at > colon) || strings.HasPrefix(raw, "/") {
		return "", "", "", false
	}
	// A drive letter such as C:\repo is a local path.
	if colon == 1 && at < 0 {
		return "", "", "", false
	}
	return "https", strings.ToLower(raw[at+1 : colon]), raw[colon+1:], true
}

func classifyHost(host string) string {
	name := host
	if h, _, found := strings.Cut(host, ":"); found {
		name = h
	}
	switch {
	case name == "github.com" || name == "www.github.com":
		return OriginGitHub
	case name == "gitlab.com" || name == "www.gitlab.com":
		return OriginGitLab
	case strings.Contains(name, "gitlab"):
		return OriginGitLabSelfHosted
	case name == "bitbucket.org" || name == "www.bitbucket.org":
		return OriginBitbucket
	default:
		return name
	}
}

// CommitURL returns the web page of a commit, or "" for unknown services.
func (r Remote) CommitURL(hash string) string {
	if r.WebURL == "" || hash == "" {
		return ""
	}
	switch r.Origin {
	case OriginGitHub:
		return r.WebURL + "/commit/" + hash
	case OriginGitLab, OriginGitLabSelfHosted:
		return r.WebURL + "/-/commit/" + hash
	case OriginBitbucket:
		return r.WebURL + "/commits/" + hash
	default:
		return ""
	}
}

// BranchURL returns the web page of a branch, or "" for unknown services
// and detached HEADs.
func (r Remote) BranchURL(branch string) string {
	if r.WebURL == "" || branch == "" || branch == "HEAD" {
		return ""
	}
	ref := escapeRef(branch)
	switch r.Origin {
	case OriginGitHub:
		return r.WebURL + "/tree/" + ref
	case OriginGitLab, OriginGitLabSelfHosted:
		return r.WebURL + "/-/tree/" + ref
	case OriginBitbucket:
		return r.WebURL + "/branch/" + ref
	default:
		return ""
	}
}

func escapeRef(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
