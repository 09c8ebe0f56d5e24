package contentflow

import (
	"net/url"
	"path"
)

// BuildURL joins a base URL with a site path. Page paths carry no trailing
// slash; the root stays "/".
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	return u.String()
}
