// Package routing decides navigation redirects based on session state.
package routing

// Route segments known to the guard. The first path segment of the
// current route determines whether it is protected or public.
const (
	SegmentTabs       = "(tabs)"
	SegmentOnboarding = "onboarding"
	SegmentWelcome    = "welcome"
	SegmentAuth       = "auth"
)

// SessionView is the slice of session state the guard depends on.
type SessionView struct {
	IsAuthenticated bool
	IsLoading       bool
	HasHydrated     bool
}

// protectedSegments require an authenticated session.
var protectedSegments = map[string]bool{
	SegmentTabs:       true,
	SegmentOnboarding: true,
}

// publicSegments are the unauthenticated entry points.
var publicSegments = map[string]bool{
	SegmentWelcome: true,
	SegmentAuth:    true,
}

// Redirect returns the route the caller should navigate to given the
// current first path segment, or "" when no redirect is needed. While a
// session operation is in flight, or before persisted state has been
// restored, the guard never redirects: acting on a provisional session
// would bounce users through the wrong screen.
func Redirect(session SessionView, segment string) string {
	if session.IsLoading || !session.HasHydrated {
		return ""
	}

	if !session.IsAuthenticated && protectedSegments[segment] {
		return "/" + SegmentWelcome
	}
	if session.IsAuthenticated && publicSegments[segment] {
		return "/" + SegmentTabs
	}
	return ""
}
