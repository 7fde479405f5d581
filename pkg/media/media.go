package media

import "strings"

// Resolver maps stored relative asset paths to fully qualified URLs.
type Resolver struct {
	baseURL string
}

// NewResolver creates a resolver for the given base URL.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve returns the fully qualified URL for a stored path. Absolute URLs
// pass through untouched; empty paths resolve to an empty string.
func (r *Resolver) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return r.baseURL + "/" + strings.TrimLeft(path, "/")
}

// ResolvePtr resolves an optional stored path, keeping nil as nil.
func (r *Resolver) ResolvePtr(path *string) *string {
	if path == nil {
		return nil
	}
	resolved := r.Resolve(*path)
	return &resolved
}
