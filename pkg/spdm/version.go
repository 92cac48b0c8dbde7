package spdm

import "fmt"

// Version is an SPDM protocol version pair. No message other than the
// version exchange may be produced or parsed before negotiation sets
// the endpoint's negotiated version.
type Version struct {
	Major uint8
	Minor uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Less reports whether v is numerically lower than other, comparing
// Major then Minor.
func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

// Equal reports whether v and other name the same version.
func (v Version) Equal(other Version) bool {
	return v.Major == other.Major && v.Minor == other.Minor
}

// NegotiateVersion picks the numerically highest version present in
// both local and peer. peer is typically supplied in descending
// preference order by the far end, but the result does not depend on
// either list's ordering. An empty intersection is reported as
// ErrVersionMismatch.
func NegotiateVersion(local, peer []Version) (Version, error) {
	var best Version
	found := false
	for _, l := range local {
		for _, p := range peer {
			if !l.Equal(p) {
				continue
			}
			if !found || best.Less(l) {
				best = l
				found = true
			}
		}
	}
	if !found {
		return Version{}, ErrVersionMismatch
	}
	return best, nil
}
