package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedirectUnauthenticatedFromProtected(t *testing.T) {
	session := SessionView{IsAuthenticated: false, IsLoading: false, HasHydrated: true}

	assert.Equal(t, "/welcome", Redirect(session, SegmentTabs))
	assert.Equal(t, "/welcome", Redirect(session, SegmentOnboarding))
}

func TestRedirectAuthenticatedFromPublic(t *testing.T) {
	session := SessionView{IsAuthenticated: true, IsLoading: false, HasHydrated: true}

	assert.Equal(t, "/(tabs)", Redirect(session, SegmentWelcome))
	assert.Equal(t, "/(tabs)", Redirect(session, SegmentAuth))
}

func TestRedirectNoOpWhileLoading(t *testing.T) {
	loading := SessionView{IsAuthenticated: false, IsLoading: true, HasHydrated: true}

	for _, segment := range []string{SegmentTabs, SegmentOnboarding, SegmentWelcome, SegmentAuth} {
		assert.Empty(t, Redirect(loading, segment), "segment %s", segment)
	}
}

func TestRedirectNoOpBeforeHydration(t *testing.T) {
	unhydrated := SessionView{IsAuthenticated: true, IsLoading: false, HasHydrated: false}

	for _, segment := range []string{SegmentTabs, SegmentWelcome} {
		assert.Empty(t, Redirect(unhydrated, segment), "segment %s", segment)
	}
}

func TestRedirectNoOpWhenStateMatchesRoute(t *testing.T) {
	authed := SessionView{IsAuthenticated: true, IsLoading: false, HasHydrated: true}
	guest := SessionView{IsAuthenticated: false, IsLoading: false, HasHydrated: true}

	assert.Empty(t, Redirect(authed, SegmentTabs))
	assert.Empty(t, Redirect(authed, SegmentOnboarding))
	assert.Empty(t, Redirect(guest, SegmentWelcome))
	assert.Empty(t, Redirect(guest, SegmentAuth))
	assert.Empty(t, Redirect(guest, "modal"))
}
