package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seamusabshere/dbcrossbar/capability"
	"github.com/seamusabshere/dbcrossbar/locator"
)

func init() {
	locator.Register(locator.Scheme("plan-test-live"), capability.NewSet("plan-test-live",
		[]capability.Op{capability.OpLocalData, capability.OpRemoteData},
		[]capability.IfExists{capability.IfExistsError}))
	locator.Register(locator.Scheme("plan-test-local-only"), capability.NewSet("plan-test-local-only",
		[]capability.Op{capability.OpLocalData},
		[]capability.IfExists{capability.IfExistsError}))
	locator.Register(locator.Scheme("plan-test-staging"), capability.NewSet("plan-test-staging",
		[]capability.Op{capability.OpLocalData, capability.OpStaging},
		[]capability.IfExists{capability.IfExistsOverwrite}))
	locator.Register(locator.Scheme("plan-test-none"), capability.NewSet("plan-test-none", nil, nil))
}

func mustParse(t *testing.T, s string) *locator.Locator {
	t.Helper()
	loc, err := locator.Parse(s)
	require.NoError(t, err)
	return loc
}

func TestChooseDirectRemoteCopyWhenSameScheme(t *testing.T) {
	src := mustParse(t, "plan-test-live:a")
	dst := mustParse(t, "plan-test-live:b")
	p, err := Choose(src, dst, nil, capability.VerifiedArgs{})
	require.NoError(t, err)
	require.Equal(t, DirectRemoteCopy, p.Strategy)
}

func TestChooseStagedCopyWhenTemporaryUsable(t *testing.T) {
	src := mustParse(t, "plan-test-local-only:a")
	dst := mustParse(t, "plan-test-live:b")
	staging := mustParse(t, "plan-test-staging:c")
	p, err := Choose(src, dst, []*locator.Locator{staging}, capability.VerifiedArgs{})
	require.NoError(t, err)
	require.Equal(t, StagedCopy, p.Strategy)
	require.Equal(t, staging, p.Staging)
}

func TestChooseLocalStreamFallback(t *testing.T) {
	src := mustParse(t, "plan-test-local-only:a")
	dst := mustParse(t, "plan-test-local-only:b")
	p, err := Choose(src, dst, nil, capability.VerifiedArgs{})
	require.NoError(t, err)
	require.Equal(t, LocalStream, p.Strategy)
}

func TestChooseFailsWhenNoRuleApplies(t *testing.T) {
	src := mustParse(t, "plan-test-none:a")
	dst := mustParse(t, "plan-test-local-only:b")
	_, err := Choose(src, dst, nil, capability.VerifiedArgs{})
	require.Error(t, err)
}
