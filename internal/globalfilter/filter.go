// Package globalfilter implements the Global Filter: a single word or tag
// that every managed task must contain. The filter is hidden from the
// editable description and put back in leading position on save.
package globalfilter

import (
	"regexp"
	"strings"
	"sync"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
)

// Filter holds the configured token. The zero value is an empty filter,
// which matches every description.
type Filter struct {
	mu    sync.RWMutex
	token string
	re    *regexp.Regexp
}

// New returns a filter for token. An empty token yields an empty filter
// without error, which is how callers get the default state.
func New(token string) (*Filter, error) {
	f := &Filter{}
	if strings.TrimSpace(token) == "" {
		return f, nil
	}
	if err := f.Set(token); err != nil {
		return nil, err
	}
	return f, nil
}

// Set replaces the token. A token that is empty after trimming, or that
// contains whitespace, is rejected and the filter falls back to empty.
func (f *Filter) Set(token string) error {
	token = strings.TrimSpace(token)

	f.mu.Lock()
	defer f.mu.Unlock()

	if token == "" || strings.ContainsAny(token, " \t") {
		f.token, f.re = "", nil
		return clierr.Newf(clierr.InvalidGlobalFilter, "invalid global filter %q", token).
			WithDetails(map[string]any{"global_filter": token})
	}

	f.token = token
	// The right boundary is whitespace or end of text, so "#todo" does not
	// match the nested tag "#todo/important".
	f.re = regexp.MustCompile(`(^|\s)` + regexp.QuoteMeta(token) + `(\s|$)`)
	return nil
}

// Reset restores the empty filter.
func (f *Filter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token, f.re = "", nil
}

// IsEmpty reports whether no filter is configured.
func (f *Filter) IsEmpty() bool {
	if f == nil {
		return true
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.token == ""
}

// Token returns the configured token, or "" when empty.
func (f *Filter) Token() string {
	if f == nil {
		return ""
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.token
}

// IsTag reports whether the token is tag-shaped (starts with '#').
func (f *Filter) IsTag() bool {
	return strings.HasPrefix(f.Token(), "#")
}

// Matches reports whether description contains the token as a standalone
// word. An empty filter matches everything.
func (f *Filter) Matches(description string) bool {
	if f == nil {
		return true
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.re == nil {
		return true
	}
	return f.re.MatchString(description)
}

// RemoveFrom strips the first standalone occurrence of the token together
// with one adjacent space. Descriptions without the token are returned
// unchanged.
func (f *Filter) RemoveFrom(description string) string {
	if f == nil {
		return description
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.re == nil {
		return description
	}
	out, _ := f.removeFirst(description)
	return out
}

// RemoveAll strips every standalone occurrence of the token, each with one
// adjacent space.
func (f *Filter) RemoveAll(description string) string {
	if f == nil {
		return description
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.re == nil {
		return description
	}
	for {
		out, ok := f.removeFirst(description)
		if !ok {
			return out
		}
		description = out
	}
}

// removeFirst expects f.mu to be held.
func (f *Filter) removeFirst(description string) (string, bool) {
	loc := f.re.FindStringSubmatchIndex(description)
	if loc == nil {
		return description, false
	}
	// loc[2:4] is the left boundary group, loc[4:6] the right one.
	leftStart, leftEnd := loc[2], loc[3]
	rightStart, rightEnd := loc[4], loc[5]

	if leftEnd > leftStart {
		// Drop the space before the token, keep the one after it.
		return description[:leftStart] + description[rightStart:], true
	}
	// Token at the start: drop the space after it.
	return description[:leftStart] + description[rightEnd:], true
}

// PrependTo puts the token in front of description, separated by one space.
// Word and tag filters share the same leading position.
func (f *Filter) PrependTo(description string) string {
	token := f.Token()
	if token == "" {
		return description
	}
	if description == "" {
		return token
	}
	return token + " " + description
}
