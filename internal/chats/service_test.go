package chats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	recipients []string
	fail       error
}

func (n *recordingNotifier) NotifyMatch(_ context.Context, recipientID, _ string, _ int64) error {
	if n.fail != nil {
		return n.fail
	}
	n.recipients = append(n.recipients, recipientID)
	return nil
}

func TestMatchEventRejectsOwnEvent(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeEvents{existing: map[int64]string{7: "owner-1"}}, nil)

	_, err := svc.MatchEvent(context.Background(), 7, "owner-1")
	assert.ErrorIs(t, err, ErrOwnEvent)
}

func TestMatchEventUnknownEvent(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeEvents{existing: map[int64]string{}}, nil)

	_, err := svc.MatchEvent(context.Background(), 42, "user-1")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestMatchEventCreatesDirectChatWithBothMembers(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, &fakeEvents{existing: map[int64]string{7: "owner-1"}}, notifier)

	chat, err := svc.MatchEvent(context.Background(), 7, "user-1")
	require.NoError(t, err)

	assert.False(t, chat.IsGroup)
	assert.Nil(t, chat.EventoID)
	assert.True(t, repo.members[chat.ID]["user-1"])
	assert.True(t, repo.members[chat.ID]["owner-1"])
	assert.Equal(t, []string{"owner-1"}, notifier.recipients)
}

func TestMatchEventReusesExistingDirectChat(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeEvents{existing: map[int64]string{7: "owner-1"}}, nil)

	first, err := svc.MatchEvent(context.Background(), 7, "user-1")
	require.NoError(t, err)
	second, err := svc.MatchEvent(context.Background(), 7, "user-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.chats, 1)
}

func TestMatchEventSurvivesNotifierFailure(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{fail: errors.New("push gateway down")}
	svc := NewService(repo, &fakeEvents{existing: map[int64]string{7: "owner-1"}}, notifier)

	chat, err := svc.MatchEvent(context.Background(), 7, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, chat.ID)
}

func TestSendMessageRepairsMembership(t *testing.T) {
	repo := newFakeRepo()
	events := &fakeEvents{existing: map[int64]string{7: "owner-1"}}
	svc := NewService(repo, events, nil)

	chatID, err := svc.JoinEvent(context.Background(), 7, "user-1")
	require.NoError(t, err)

	// Simulate a membership row that got lost between join and send.
	require.NoError(t, repo.DeleteMembership(context.Background(), chatID, "user-1"))

	msg, err := svc.SendMessage(context.Background(), chatID, "user-1", &SendMessageDTO{Content: "hola equipo"})
	require.NoError(t, err)

	assert.Equal(t, "hola equipo", msg.Content)
	assert.NotZero(t, msg.ID)
	assert.True(t, repo.members[chatID]["user-1"], "sending must restore membership")
}

func TestSendMessageUnknownChat(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeEvents{existing: map[int64]string{}}, nil)

	_, err := svc.SendMessage(context.Background(), "no-such-chat", "user-1", &SendMessageDTO{Content: "hola"})
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestListMessagesRequiresMembership(t *testing.T) {
	repo := newFakeRepo()
	events := &fakeEvents{existing: map[int64]string{7: "owner-1"}}
	svc := NewService(repo, events, nil)

	chatID, err := svc.JoinEvent(context.Background(), 7, "user-1")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), chatID, "user-1", &SendMessageDTO{Content: "hola"})
	require.NoError(t, err)

	_, err = svc.ListMessages(context.Background(), chatID, "outsider", 50, nil)
	assert.ErrorIs(t, err, ErrNotChatMember)

	messages, err := svc.ListMessages(context.Background(), chatID, "user-1", 50, nil)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}
