package profile

import "github.com/google/uuid"

// PointID maps an external profile id to its index point id: a version 5
// UUID in the DNS namespace. The mapping is deterministic, so repeated
// ingestion of the same external id always lands on the same point.
func PointID(externalID string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(externalID)).String()
}
