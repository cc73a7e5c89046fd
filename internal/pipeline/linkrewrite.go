package pipeline

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// LinkResolver abstracts rewriting of relative link targets.
type LinkResolver interface {
	ResolveLinks(ctx context.Context, htmlContent, sourceDir string) (string, error)
}

// FileLinkResolver points relative links at files next to the source
// briefing. The browser loads the HTML from a temp file, so a relative href
// would otherwise resolve against the temp directory.
type FileLinkResolver struct{}

// ResolveLinks rewrites relative a[href] targets under sourceDir to absolute
// file:// URLs. URLs, anchors, absolute paths and targets escaping sourceDir
// are left alone. An empty sourceDir returns the HTML unchanged.
func (r *FileLinkResolver) ResolveLinks(ctx context.Context, htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" || ctx.Err() != nil || !strings.Contains(htmlContent, "<a ") {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	rewriteLinks(doc, absSourceDir)

	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rewriteLinks traverses the DOM and rewrites anchor targets.
func rewriteLinks(n *html.Node, sourceDir string) {
	if n.Type == html.ElementNode && n.Data == "a" {
		for i, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			if resolved, ok := resolveHref(attr.Val, sourceDir); ok {
				n.Attr[i].Val = resolved
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteLinks(c, sourceDir)
	}
}

// resolveHref returns the file:// URL for a relative href, keeping its
// fragment. The href is percent-encoded, as emitted by the renderer.
func resolveHref(href, sourceDir string) (string, bool) {
	if !isRelativePath(href) {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}

	absPath := filepath.Join(sourceDir, filepath.FromSlash(u.Path))
	if !isPathUnderDir(absPath, sourceDir) {
		return "", false
	}

	fileURL := pathToFileURL(absPath)
	if u.Fragment != "" {
		fileURL += "#" + u.EscapedFragment()
	}
	return fileURL, true
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// Skip URLs (http, https, file, data, protocol-relative)
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "file://") ||
		strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "//") {
		return false
	}

	// Skip anchors
	if strings.HasPrefix(path, "#") {
		return false
	}

	// Skip absolute paths
	if filepath.IsAbs(path) {
		return false
	}

	return true
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths correctly.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
