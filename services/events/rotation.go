package events

/*
 * Host rotation: every new event of a group gets the member right after the
 * previous event's host, in the group's stable member order (joined_at, then
 * user id). The first event of a group goes to the first member.
 */

// ResolveNextHost picks the host for a new event. memberIDs is the group's
// member list in stable order; lastHost is the host of the most recently
// created event, or "" when the group has no events yet.
//
// When the previous host already left the group the rotation restarts at the
// first member. The returned id is always an element of memberIDs.
func ResolveNextHost(memberIDs []string, lastHost string) (string, error) {
	if len(memberIDs) == 0 {
		return "", &ValidationError{Reason: "group has no members, cannot assign a host"}
	}

	if lastHost == "" {
		return memberIDs[0], nil
	}

	for i, id := range memberIDs {
		if id == lastHost {
			return memberIDs[(i+1)%len(memberIDs)], nil
		}
	}

	// Previous host left the group, restart the rotation.
	return memberIDs[0], nil
}
