package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VarunRam7/Everstory-BE/pkg/token"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/domain"
)

// --- DOUBLES EN MÉMOIRE ---

type fakeRequestRepo struct {
	requests  []*domain.FollowRequest
	createErr error
}

func (f *fakeRequestRepo) Create(_ context.Context, req *domain.FollowRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *req
	f.requests = append(f.requests, &copied)
	return nil
}

func (f *fakeRequestRepo) FindActive(_ context.Context, byID, toID string) (*domain.FollowRequest, error) {
	for _, r := range f.requests {
		if r.RequestBy.ID == byID && r.RequestTo.ID == toID && r.Status == domain.StatusPending && !r.IsExpired {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestRepo) FindPendingFor(_ context.Context, userID string) ([]*domain.FollowRequest, error) {
	var out []*domain.FollowRequest
	for _, r := range f.requests {
		if r.RequestTo.ID == userID && r.Status == domain.StatusPending && !r.IsExpired {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) FindPendingBetween(ctx context.Context, byID, toID string) (*domain.FollowRequest, error) {
	return f.FindActive(ctx, byID, toID)
}

func (f *fakeRequestRepo) ResolveByToken(_ context.Context, tok string, status domain.FollowRequestStatus) (*domain.FollowRequest, error) {
	for _, r := range f.requests {
		if r.Token == tok && !r.IsExpired {
			r.Status = status
			r.IsExpired = true
			r.UpdatedAt = time.Now().UTC()
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestRepo) Revoke(_ context.Context, byID, toID string) (*domain.FollowRequest, error) {
	for _, r := range f.requests {
		if r.RequestBy.ID == byID && r.RequestTo.ID == toID && r.Status == domain.StatusPending && !r.IsExpired {
			r.IsExpired = true
			r.UpdatedAt = time.Now().UTC()
			return r, nil
		}
	}
	return nil, nil
}

type fakeIdentityClient struct {
	err error
}

func (f *fakeIdentityClient) GetFollowRequestDetails(_ context.Context, byID, toID string) (domain.Participant, domain.Participant, error) {
	if f.err != nil {
		return domain.Participant{}, domain.Participant{}, f.err
	}
	by := domain.Participant{ID: byID, FirstName: "Alice", LastName: "Martin"}
	to := domain.Participant{ID: toID, FirstName: "Bruno", LastName: "Costa", IsPrivate: true}
	return by, to, nil
}

type fakeBroker struct {
	recipients []string
	err        error
}

func (f *fakeBroker) PublishRequestChanged(_ context.Context, recipientID string) error {
	f.recipients = append(f.recipients, recipientID)
	return f.err
}

type fakeRelationRepo struct {
	edges     map[[2]string]bool
	createErr error
}

func newFakeRelationRepo() *fakeRelationRepo {
	return &fakeRelationRepo{edges: map[[2]string]bool{}}
}

func (f *fakeRelationRepo) EnsureSchema(context.Context) error { return nil }

func (f *fakeRelationRepo) CreateRelation(_ context.Context, byID, toID string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.edges[[2]string{byID, toID}] = true
	return nil
}

func (f *fakeRelationRepo) RelationExists(_ context.Context, byID, toID string) (bool, error) {
	return f.edges[[2]string{byID, toID}], nil
}

func (f *fakeRelationRepo) DeleteRelation(_ context.Context, byID, toID string) (bool, error) {
	key := [2]string{byID, toID}
	if !f.edges[key] {
		return false, nil
	}
	delete(f.edges, key)
	return true, nil
}

func (f *fakeRelationRepo) CountRelations(_ context.Context, userID string) (domain.FollowCounts, error) {
	var counts domain.FollowCounts
	for key := range f.edges {
		if key[1] == userID {
			counts.Followers++
		}
		if key[0] == userID {
			counts.Following++
		}
	}
	return counts, nil
}

type fixture struct {
	svc      *followRequestService
	requests *fakeRequestRepo
	edges    *fakeRelationRepo
	identity *fakeIdentityClient
	broker   *fakeBroker
}

func newFixture() *fixture {
	requests := &fakeRequestRepo{}
	edges := newFakeRelationRepo()
	identity := &fakeIdentityClient{}
	broker := &fakeBroker{}
	svc := NewFollowRequestService(requests, NewRelationshipService(edges), identity, broker)
	return &fixture{
		svc:      svc.(*followRequestService),
		requests: requests,
		edges:    edges,
		identity: identity,
		broker:   broker,
	}
}

// --- CRÉATION ---

func TestCreateFollowRequest(t *testing.T) {
	fx := newFixture()

	req, err := fx.svc.CreateFollowRequest(context.Background(), "u-alice", "u-bruno")
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Len(t, req.Token, token.RequestTokenLength)
	assert.Equal(t, domain.StatusPending, req.Status)
	assert.False(t, req.IsExpired)

	// Les snapshots des deux participants sont figés dans la demande
	assert.Equal(t, "Alice", req.RequestBy.FirstName)
	assert.Equal(t, "u-bruno", req.RequestTo.ID)
	assert.True(t, req.RequestTo.IsPrivate)

	// Le destinataire est notifié après persistance
	require.Len(t, fx.requests.requests, 1)
	assert.Equal(t, []string{"u-bruno"}, fx.broker.recipients)
}

func TestCreateFollowRequestSelf(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.CreateFollowRequest(context.Background(), "u-alice", "u-alice")
	assert.ErrorIs(t, err, domain.ErrSelfFollow)
	assert.Empty(t, fx.requests.requests)
}

func TestCreateFollowRequestDuplicate(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)

	_, err = fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)

	// La paire inverse reste libre
	_, err = fx.svc.CreateFollowRequest(ctx, "u-bruno", "u-alice")
	assert.NoError(t, err)
}

func TestCreateFollowRequestAfterResolution(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	first, err := fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)

	_, err = fx.svc.RespondToRequest(ctx, first.Token, domain.StatusRejected)
	require.NoError(t, err)

	// Une demande résolue ne bloque plus la paire
	_, err = fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	assert.NoError(t, err)
}

func TestCreateFollowRequestIdentityDown(t *testing.T) {
	fx := newFixture()
	fx.identity.err = errors.New("nats: no responders available for request")

	_, err := fx.svc.CreateFollowRequest(context.Background(), "u-alice", "u-bruno")
	assert.ErrorIs(t, err, domain.ErrIdentityUnavailable)
	assert.Empty(t, fx.requests.requests)
	assert.Empty(t, fx.broker.recipients)
}

func TestCreateFollowRequestBrokerDownIsNotFatal(t *testing.T) {
	fx := newFixture()
	fx.broker.err = errors.New("nats: connection closed")

	req, err := fx.svc.CreateFollowRequest(context.Background(), "u-alice", "u-bruno")
	require.NoError(t, err)
	assert.NotNil(t, req)
	assert.Len(t, fx.requests.requests, 1)
}

// --- RÉPONSE ---

func TestRespondAccepted(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)

	updated, err := fx.svc.RespondToRequest(ctx, created.Token, domain.StatusAccepted)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAccepted, updated.Status)
	assert.True(t, updated.IsExpired)

	// L'arête est posée dans le sens demandeur -> destinataire
	following, err := fx.edges.RelationExists(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := fx.edges.RelationExists(ctx, "u-bruno", "u-alice")
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestRespondRejected(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)

	updated, err := fx.svc.RespondToRequest(ctx, created.Token, domain.StatusRejected)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, updated.Status)
	assert.True(t, updated.IsExpired)
	assert.Empty(t, fx.edges.edges)
}

func TestRespondReplayIsRejected(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)

	_, err = fx.svc.RespondToRequest(ctx, created.Token, domain.StatusRejected)
	require.NoError(t, err)

	// Le même jeton ne peut pas être rejoué, même avec la même décision
	_, err = fx.svc.RespondToRequest(ctx, created.Token, domain.StatusRejected)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestRespondUnknownToken(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.RespondToRequest(context.Background(), "zzzzzzzzzz", domain.StatusAccepted)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestRespondValidation(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.svc.RespondToRequest(ctx, "", domain.StatusAccepted)
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	_, err = fx.svc.RespondToRequest(ctx, "sometoken1", domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidDecision)

	_, err = fx.svc.RespondToRequest(ctx, "sometoken1", "CANCELLED")
	assert.ErrorIs(t, err, domain.ErrInvalidDecision)
}

func TestRespondAcceptedGraphDown(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)

	fx.edges.createErr = errors.New("neo4j: connection refused")

	_, err = fx.svc.RespondToRequest(ctx, created.Token, domain.StatusAccepted)
	require.Error(t, err)

	// La demande est consommée mais l'arête manque : fenêtre assumée,
	// le rejeu du jeton reste refusé.
	_, err = fx.svc.RespondToRequest(ctx, created.Token, domain.StatusAccepted)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestRespondNotifiesRecipient(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)

	_, err = fx.svc.RespondToRequest(ctx, created.Token, domain.StatusAccepted)
	require.NoError(t, err)

	assert.Equal(t, []string{"u-bruno", "u-bruno"}, fx.broker.recipients)
}

// --- RÉVOCATION ---

func TestRevokeRequest(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)

	revoked, err := fx.svc.RevokeRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)
	require.NotNil(t, revoked)

	// La révocation expire la demande sans la transformer en décision
	assert.Equal(t, domain.StatusPending, revoked.Status)
	assert.True(t, revoked.IsExpired)

	// Le jeton de la demande révoquée est mort
	_, err = fx.svc.RespondToRequest(ctx, created.Token, domain.StatusAccepted)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestRevokeAbsentRequestIsNoOp(t *testing.T) {
	fx := newFixture()

	revoked, err := fx.svc.RevokeRequest(context.Background(), "u-alice", "u-bruno")
	assert.NoError(t, err)
	assert.Nil(t, revoked)
	assert.Empty(t, fx.broker.recipients)
}

// --- LISTES ---

func TestGetPendingFollowRequests(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)
	accepted, err := fx.svc.CreateFollowRequest(ctx, "u-carla", "u-bruno")
	require.NoError(t, err)
	_, err = fx.svc.CreateFollowRequest(ctx, "u-alice", "u-carla")
	require.NoError(t, err)

	_, err = fx.svc.RespondToRequest(ctx, accepted.Token, domain.StatusAccepted)
	require.NoError(t, err)

	// Seules les demandes encore en attente adressées à Bruno restent
	pending, err := fx.svc.GetPendingFollowRequests(ctx, "u-bruno")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "u-alice", pending[0].RequestBy.ID)
}

func TestGetPendingBetween(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.svc.CreateFollowRequest(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)

	between, err := fx.svc.GetPendingBetween(ctx, "u-alice", "u-bruno")
	require.NoError(t, err)
	assert.NotNil(t, between)

	absent, err := fx.svc.GetPendingBetween(ctx, "u-bruno", "u-alice")
	require.NoError(t, err)
	assert.Nil(t, absent)
}
