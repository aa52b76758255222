package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/VarunRam7/Everstory-BE/pkg/rpc"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
)

// SubjectGetFollowRequestDetails est servi par le service identity.
const SubjectGetFollowRequestDetails = "identity.get_follow_request_details"

type IdentityClient struct {
	rpc     *rpc.Client
	timeout time.Duration
}

func NewIdentityClient(client *rpc.Client, timeout time.Duration) *IdentityClient {
	return &IdentityClient{rpc: client, timeout: timeout}
}

type followRequestDetailsRequest struct {
	RequestBy string `json:"requestBy"`
	RequestTo string `json:"requestTo"`
}

// GetFollowRequestDetails remonte les snapshots minimaux des deux
// participants en un seul appel groupé (jamais deux allers-retours).
func (c *IdentityClient) GetFollowRequestDetails(ctx context.Context, byID, toID string) (domain.Participant, domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var snapshots [2]domain.Participant
	err := c.rpc.Invoke(ctx, SubjectGetFollowRequestDetails, followRequestDetailsRequest{
		RequestBy: byID,
		RequestTo: toID,
	}, &snapshots)
	if err != nil {
		return domain.Participant{}, domain.Participant{}, fmt.Errorf("get follow request details: %w", err)
	}
	return snapshots[0], snapshots[1], nil
}
