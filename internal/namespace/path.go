package namespace

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// SplitPath tokenizes a dotted path. Empty paths and empty segments
// (leading, trailing, or doubled dots) are rejected up front so a bad
// registration fails before it is persisted.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("namespace: empty path")
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("namespace: malformed path %q", path)
		}
	}
	return segments, nil
}

// Walk resolves a dotted path segment-by-segment from root. A missing
// or null intermediate yields a *PathError naming the failing segment.
// Walk never caches: shortcut call sites invoke it on every call so
// redefinition at the path takes effect immediately.
func Walk(rt *goja.Runtime, root *goja.Object, path string) (goja.Value, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	var cur goja.Value = root
	for _, seg := range segments {
		if cur == nil || goja.IsNull(cur) || goja.IsUndefined(cur) {
			return nil, &PathError{Path: path, Segment: seg}
		}
		obj := cur.ToObject(rt)
		next := obj.Get(seg)
		if next == nil || goja.IsUndefined(next) {
			return nil, &PathError{Path: path, Segment: seg}
		}
		cur = next
	}
	return cur, nil
}
