package message

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"mammy-coker-hub/internal/domain/message"
	"mammy-coker-hub/internal/domain/notification"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/domain/validation"

	"github.com/google/uuid"
)

type fakeConversations struct {
	convs    map[uuid.UUID]message.Conversation
	messages map[uuid.UUID][]message.Message
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{convs: map[uuid.UUID]message.Conversation{}, messages: map[uuid.UUID][]message.Message{}}
}

func (f *fakeConversations) GetOrCreate(_ context.Context, a, b uuid.UUID) (message.Conversation, error) {
	a, b = message.OrderedPair(a, b)
	for _, c := range f.convs {
		if c.ParticipantA == a && c.ParticipantB == b {
			return c, nil
		}
	}
	c := message.Conversation{ID: uuid.New(), ParticipantA: a, ParticipantB: b}
	f.convs[c.ID] = c
	return c, nil
}

func (f *fakeConversations) GetByID(_ context.Context, id uuid.UUID) (message.Conversation, error) {
	c, ok := f.convs[id]
	if !ok {
		return message.Conversation{}, message.ErrConversationNotFound
	}
	return c, nil
}

func (f *fakeConversations) ListSummaries(context.Context, uuid.UUID) ([]message.Summary, error) {
	return nil, nil
}

func (f *fakeConversations) ListMessages(_ context.Context, id uuid.UUID) ([]message.Message, error) {
	return f.messages[id], nil
}

func (f *fakeConversations) AddMessage(_ context.Context, m message.Message) (message.Message, error) {
	m.ID = uuid.New()
	f.messages[m.ConversationID] = append(f.messages[m.ConversationID], m)
	return m, nil
}

func (f *fakeConversations) MarkRead(_ context.Context, id, reader uuid.UUID) (int64, error) {
	var n int64
	for i, m := range f.messages[id] {
		if m.SenderID != reader && !m.Read {
			f.messages[id][i].Read = true
			n++
		}
	}
	return n, nil
}

type fakeProfiles struct{ known map[uuid.UUID]bool }

func (f fakeProfiles) GetProfile(_ context.Context, id uuid.UUID) (user.Profile, error) {
	if !f.known[id] {
		return user.Profile{}, user.ErrNotFound
	}
	return user.Profile{UserID: id}, nil
}

func (f fakeProfiles) UpsertProfile(_ context.Context, p user.Profile) (user.Profile, error) {
	return p, nil
}

type fakePublisher struct{ events []Event }

func (p *fakePublisher) Publish(_ context.Context, _ string, payload []byte) error {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	p.events = append(p.events, ev)
	return nil
}

type fakeNotifier struct {
	to    []uuid.UUID
	texts []string
}

func (n *fakeNotifier) Notify(_ context.Context, userID uuid.UUID, _ notification.Type, _, msg string, _ map[string]any) {
	n.to = append(n.to, userID)
	n.texts = append(n.texts, msg)
}

type fixture struct {
	svc      *Service
	convs    *fakeConversations
	pub      *fakePublisher
	notifier *fakeNotifier
	alice    user.Actor
	bob      user.Actor
}

func newFixture() fixture {
	f := fixture{
		convs:    newFakeConversations(),
		pub:      &fakePublisher{},
		notifier: &fakeNotifier{},
		alice:    user.Actor{ID: uuid.New(), Role: user.RoleEmployer},
		bob:      user.Actor{ID: uuid.New(), Role: user.RoleProfessional},
	}
	profiles := fakeProfiles{known: map[uuid.UUID]bool{f.alice.ID: true, f.bob.ID: true}}
	f.svc = NewService(f.convs, profiles, f.pub, f.notifier, nil)
	return f
}

func TestStart_IsIdempotentPerPair(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c1, err := f.svc.Start(ctx, f.alice, f.bob.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c2, err := f.svc.Start(ctx, f.bob, f.alice.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c1.ID != c2.ID {
		t.Fatalf("expected the same conversation for both directions")
	}
}

func TestStart_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Start(ctx, f.alice, f.alice.ID); !errors.Is(err, message.ErrSelfConversation) {
		t.Fatalf("expected ErrSelfConversation, got %v", err)
	}
	if _, err := f.svc.Start(ctx, f.alice, uuid.New()); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSend_PublishesAndNotifiesRecipient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	conv, _ := f.svc.Start(ctx, f.alice, f.bob.ID)

	m, err := f.svc.Send(ctx, f.alice, conv.ID, "  Are you available Monday?  ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.Content != "Are you available Monday?" || m.SenderID != f.alice.ID {
		t.Fatalf("unexpected message %+v", m)
	}
	if len(f.pub.events) != 1 || f.pub.events[0].Type != EventMessageCreated || f.pub.events[0].Message.ID != m.ID {
		t.Fatalf("unexpected events %+v", f.pub.events)
	}
	if len(f.notifier.to) != 1 || f.notifier.to[0] != f.bob.ID {
		t.Fatalf("expected bob to be notified, got %v", f.notifier.to)
	}
}

func TestSend_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	conv, _ := f.svc.Start(ctx, f.alice, f.bob.ID)

	if _, err := f.svc.Send(ctx, f.alice, conv.ID, "   "); !errors.Is(err, message.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	var fe validation.Errors
	if _, err := f.svc.Send(ctx, f.alice, conv.ID, strings.Repeat("a", message.MaxContentLength+1)); !errors.As(err, &fe) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	outsider := user.Actor{ID: uuid.New()}
	if _, err := f.svc.Send(ctx, outsider, conv.ID, "hi"); !errors.Is(err, message.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestMarkRead_OnlyOthersMessages(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.SendTo(ctx, f.alice, f.bob.ID, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	conv, _ := f.svc.Start(ctx, f.bob, f.alice.ID)
	if _, err := f.svc.Send(ctx, f.bob, conv.ID, "hi there"); err != nil {
		t.Fatalf("send: %v", err)
	}

	n, err := f.svc.MarkRead(ctx, f.bob, conv.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 message marked, got %d err=%v", n, err)
	}
	last := f.pub.events[len(f.pub.events)-1]
	if last.Type != EventMessagesRead || last.ReaderID == nil || *last.ReaderID != f.bob.ID {
		t.Fatalf("unexpected read event %+v", last)
	}

	msgs, _ := f.svc.Messages(ctx, f.alice, conv.ID)
	if msgs[0].Read != true || msgs[1].Read != false {
		t.Fatalf("unexpected read flags %+v", msgs)
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("é", 150)
	if got := []rune(preview(long)); len(got) != previewLength+1 {
		t.Fatalf("unexpected preview length %d", len(got))
	}
	if preview("short") != "short" {
		t.Fatalf("short text should be unchanged")
	}
}
