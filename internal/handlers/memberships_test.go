package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pickpic-api/internal/dto"
	"github.com/yukikurage/pickpic-api/internal/models"
	"github.com/yukikurage/pickpic-api/internal/services"
)

func setupMembershipTestEnv(t *testing.T) (eventTestEnv, *MembershipHandler) {
	t.Helper()

	env := setupEventTestEnv(t)
	return env, NewMembershipHandler(env.membershipService)
}

func TestMembershipHandler_Invite_CountsInvitedAndSkipped(t *testing.T) {
	env, handler := setupMembershipTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	invitee := createEventTestUser(t, env.db, "invitee")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Party", OwnerID: owner.ID})
	require.NoError(t, err)

	// One real invitee, one self-invite, one unknown id.
	payload := map[string][]uint64{"user_ids": {invitee.ID, owner.ID, 9999}}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/invite", event.ID)
	c, w := eventTestContext(http.MethodPost, url, body, owner.ID)
	setContextEvent(c, *event)

	handler.Invite(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var result services.InviteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 1, result.Invited)
	require.Equal(t, 2, result.Skipped)

	membership, err := env.membershipRepo.Find(event.ID, invitee.ID)
	require.NoError(t, err)
	require.Equal(t, models.MembershipPending, membership.State)
}

func TestMembershipHandler_Invite_ExistingMembershipSkipped(t *testing.T) {
	env, handler := setupMembershipTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	invitee := createEventTestUser(t, env.db, "invitee")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Party", OwnerID: owner.ID})
	require.NoError(t, err)

	_, err = env.membershipService.InviteDirect(event.ID, owner.ID, []uint64{invitee.ID})
	require.NoError(t, err)

	payload := map[string][]uint64{"user_ids": {invitee.ID}}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/invite", event.ID)
	c, w := eventTestContext(http.MethodPost, url, body, owner.ID)
	setContextEvent(c, *event)

	handler.Invite(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var result services.InviteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 0, result.Invited)
	require.Equal(t, 1, result.Skipped)
}

func TestMembershipHandler_AcceptInvitation(t *testing.T) {
	env, handler := setupMembershipTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	invitee := createEventTestUser(t, env.db, "invitee")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Party", OwnerID: owner.ID})
	require.NoError(t, err)

	_, err = env.membershipService.InviteDirect(event.ID, owner.ID, []uint64{invitee.ID})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/invitation/accept", event.ID)
	c, w := eventTestContext(http.MethodPut, url, nil, invitee.ID)
	c.Params = append(c.Params, paramID(event.ID))

	handler.AcceptInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)

	membership, err := env.membershipRepo.Find(event.ID, invitee.ID)
	require.NoError(t, err)
	require.Equal(t, models.MembershipAccepted, membership.State)

	// Accepting twice is a no-op success.
	c, w = eventTestContext(http.MethodPut, url, nil, invitee.ID)
	c.Params = append(c.Params, paramID(event.ID))

	handler.AcceptInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestMembershipHandler_AcceptInvitation_NoInvitation(t *testing.T) {
	env, handler := setupMembershipTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	stranger := createEventTestUser(t, env.db, "stranger")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Party", OwnerID: owner.ID})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/invitation/accept", event.ID)
	c, w := eventTestContext(http.MethodPut, url, nil, stranger.ID)
	c.Params = append(c.Params, paramID(event.ID))

	handler.AcceptInvitation(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembershipHandler_DeclineInvitation(t *testing.T) {
	env, handler := setupMembershipTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	invitee := createEventTestUser(t, env.db, "invitee")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Party", OwnerID: owner.ID})
	require.NoError(t, err)

	_, err = env.membershipService.InviteDirect(event.ID, owner.ID, []uint64{invitee.ID})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/invitation/decline", event.ID)
	c, w := eventTestContext(http.MethodDelete, url, nil, invitee.ID)
	c.Params = append(c.Params, paramID(event.ID))

	handler.DeclineInvitation(c)

	require.Equal(t, http.StatusOK, w.Code)

	_, err = env.membershipRepo.Find(event.ID, invitee.ID)
	require.Error(t, err)

	// The row is gone, declining again is NotFound.
	c, w = eventTestContext(http.MethodDelete, url, nil, invitee.ID)
	c.Params = append(c.Params, paramID(event.ID))

	handler.DeclineInvitation(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembershipHandler_DeclineInvitation_OwnerForbidden(t *testing.T) {
	env, handler := setupMembershipTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Party", OwnerID: owner.ID})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/invitation/decline", event.ID)
	c, w := eventTestContext(http.MethodDelete, url, nil, owner.ID)
	c.Params = append(c.Params, paramID(event.ID))

	handler.DeclineInvitation(c)

	require.Equal(t, http.StatusForbidden, w.Code)

	// The accepted row survives and the event still lists as owned.
	membership, err := env.membershipRepo.Find(event.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, models.MembershipAccepted, membership.State)

	userEvents, err := env.membershipService.ListEventsForUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, userEvents.Owned, 1)
	require.Equal(t, event.ID, userEvents.Owned[0].ID)
}

func TestMembershipHandler_ListInvitations_IncludesOwnerName(t *testing.T) {
	env, handler := setupMembershipTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	invitee := createEventTestUser(t, env.db, "invitee")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Party", OwnerID: owner.ID})
	require.NoError(t, err)

	_, err = env.membershipService.InviteDirect(event.ID, owner.ID, []uint64{invitee.ID})
	require.NoError(t, err)

	c, w := eventTestContext(http.MethodGet, "/api/events/invitations", nil, invitee.ID)

	handler.ListInvitations(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string][]dto.PendingInvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	invitations := response["invitations"]
	require.Len(t, invitations, 1)
	require.Equal(t, event.ID, invitations[0].ID)
	require.Equal(t, "owner", invitations[0].OwnerName)
}

func TestMembershipHandler_RemoveMember_OwnerCannotBeRemoved(t *testing.T) {
	env, handler := setupMembershipTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Party", OwnerID: owner.ID})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/members/%d", event.ID, owner.ID)
	c, w := eventTestContext(http.MethodDelete, url, nil, owner.ID)
	setContextEvent(c, *event)
	c.Params = append(c.Params, paramUserID(owner.ID))

	handler.RemoveMember(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMembershipHandler_RemoveMember_MemberLeaves(t *testing.T) {
	env, handler := setupMembershipTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	member := createEventTestUser(t, env.db, "member")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Party", OwnerID: owner.ID})
	require.NoError(t, err)

	_, err = env.membershipService.InviteDirect(event.ID, owner.ID, []uint64{member.ID})
	require.NoError(t, err)
	require.NoError(t, env.membershipService.AcceptInvitation(event.ID, member.ID))

	url := fmt.Sprintf("/api/events/%d/members/%d", event.ID, member.ID)
	c, w := eventTestContext(http.MethodDelete, url, nil, member.ID)
	setContextEvent(c, *event)
	c.Params = append(c.Params, paramUserID(member.ID))

	handler.RemoveMember(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusAccepted, w.Code)

	_, err = env.membershipRepo.Find(event.ID, member.ID)
	require.Error(t, err)
}

func TestMembershipHandler_RemoveMember_StrangerForbidden(t *testing.T) {
	env, handler := setupMembershipTestEnv(t)

	owner := createEventTestUser(t, env.db, "owner")
	member := createEventTestUser(t, env.db, "member")
	stranger := createEventTestUser(t, env.db, "stranger")

	event, err := env.eventService.CreateEvent(services.CreateEventInput{Name: "Party", OwnerID: owner.ID})
	require.NoError(t, err)

	_, err = env.membershipService.InviteDirect(event.ID, owner.ID, []uint64{member.ID})
	require.NoError(t, err)

	url := fmt.Sprintf("/api/events/%d/members/%d", event.ID, member.ID)
	c, w := eventTestContext(http.MethodDelete, url, nil, stranger.ID)
	setContextEvent(c, *event)
	c.Params = append(c.Params, paramUserID(member.ID))

	handler.RemoveMember(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}
