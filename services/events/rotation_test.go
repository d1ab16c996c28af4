package events_test

import (
	"testing"

	"Meeple/services/events"

	"github.com/stretchr/testify/assert"
)

func TestFirstEventGoesToFirstMember(t *testing.T) {
	host, err := events.ResolveNextHost([]string{"alice", "bob", "carol"}, "")
	assert.NoError(t, err)
	assert.Equal(t, "alice", host)
}

func TestRotationAdvancesAndWraps(t *testing.T) {
	members := []string{"alice", "bob", "carol"}

	host, err := events.ResolveNextHost(members, "alice")
	assert.NoError(t, err)
	assert.Equal(t, "bob", host)

	host, err = events.ResolveNextHost(members, "bob")
	assert.NoError(t, err)
	assert.Equal(t, "carol", host)

	// Wraps back to the start of the member list
	host, err = events.ResolveNextHost(members, "carol")
	assert.NoError(t, err)
	assert.Equal(t, "alice", host)
}

func TestRotationIsFairOverManyEvents(t *testing.T) {
	members := []string{"m0", "m1", "m2", "m3"}
	counts := map[string]int{}

	lastHost := ""
	for i := 0; i < 40; i++ {
		host, err := events.ResolveNextHost(members, lastHost)
		assert.NoError(t, err)
		counts[host]++
		lastHost = host
	}

	for _, m := range members {
		assert.Equal(t, 10, counts[m], "member %s should host exactly 10 of 40 events", m)
	}
}

func TestDepartedHostFallsBackToFirstMember(t *testing.T) {
	// bob hosted the last event but has since left the group
	host, err := events.ResolveNextHost([]string{"alice", "carol"}, "bob")
	assert.NoError(t, err)
	assert.Equal(t, "alice", host)
	assert.NotEqual(t, "bob", host)
}

func TestSingleMemberGroupAlwaysHostsThemselves(t *testing.T) {
	host, err := events.ResolveNextHost([]string{"alice"}, "alice")
	assert.NoError(t, err)
	assert.Equal(t, "alice", host)
}

func TestEmptyGroupCannotHost(t *testing.T) {
	_, err := events.ResolveNextHost(nil, "")
	assert.Error(t, err)

	var verr *events.ValidationError
	assert.ErrorAs(t, err, &verr)
}
