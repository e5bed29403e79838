package authoring

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"trigger-bot/internal/cache"
	"trigger-bot/internal/database"
	"trigger-bot/internal/keyboards"
	"trigger-bot/internal/logger"
	"trigger-bot/internal/messenger/requests"
	"trigger-bot/internal/messenger/update"
	"trigger-bot/internal/texts"
	"trigger-bot/internal/triggers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chatID = int64(-100)
	alice  = int64(10)
	bob    = int64(11)
)

type sent struct {
	chatID, replyTo int64
	text            string
	keyboard        *requests.InlineKeyboardMarkup
}

type fakeMessenger struct {
	mu       sync.Mutex
	nextID   int64
	sent     []sent
	deleted  []int64
	unmarked []int64
}

func (f *fakeMessenger) SendMessage(_ context.Context, chatID, replyTo int64, text string, kb *requests.InlineKeyboardMarkup) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sent = append(f.sent, sent{chatID: chatID, replyTo: replyTo, text: text, keyboard: kb})
	return 500 + f.nextID, nil
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, _, msgID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, msgID)
	return nil
}

func (f *fakeMessenger) RemoveKeyboard(_ context.Context, _, msgID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unmarked = append(f.unmarked, msgID)
	return nil
}

func (f *fakeMessenger) last() sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

var errStatesDown = errors.New("state store down")

// failingStates хранилище состояний, у которого ломаются выбранные операции
type failingStates struct {
	cache.Store
	get, set, clear bool
}

func (s *failingStates) Get(ctx context.Context, chatID, userID int64) (cache.Chat, error) {
	if s.get {
		return cache.Chat{}, errStatesDown
	}
	return s.Store.Get(ctx, chatID, userID)
}

func (s *failingStates) Set(ctx context.Context, chatID, userID int64, state cache.Chat) error {
	if s.set {
		return errStatesDown
	}
	return s.Store.Set(ctx, chatID, userID, state)
}

func (s *failingStates) Clear(ctx context.Context, chatID, userID int64) error {
	if s.clear {
		return errStatesDown
	}
	return s.Store.Clear(ctx, chatID, userID)
}

type fixture struct {
	machine   *Machine
	store     *database.Store
	messenger *fakeMessenger
	states    *failingStates
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()
	store, err := database.Open(filepath.Join(t.TempDir(), "authoring.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	bc, err := database.ConnectInMemoryCache(ttl)
	require.NoError(t, err)
	t.Cleanup(func() { bc.Close() })

	log := logger.New(new(bytes.Buffer), true)
	svc := triggers.NewService(store, texts.Static(texts.Texts{}), log)
	messenger := &fakeMessenger{}
	states := &failingStates{Store: cache.NewBigCacheStore(bc, ttl)}

	return &fixture{
		machine:   New(svc, states, messenger, log),
		store:     store,
		messenger: messenger,
		states:    states,
	}
}

func (f *fixture) event(t *testing.T, name string) *database.TriggerEvent {
	t.Helper()
	e, err := f.store.UpsertEvent(context.Background(), chatID, name, "hello", database.MATCH_LITERAL)
	require.NoError(t, err)
	return e
}

func (f *fixture) answers(t *testing.T, eventID int64, kind database.MediaKind) int {
	t.Helper()
	n, err := f.store.CountAnswers(context.Background(), eventID, kind)
	require.NoError(t, err)
	return n
}

func message(id, userID int64, text string) *update.Message {
	return &update.Message{
		MessageID: id,
		From:      &update.User{ID: userID},
		Chat:      update.Chat{ID: chatID},
		Text:      text,
	}
}

func TestHappyPath(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	e := f.event(t, "greet")

	handled, err := f.machine.Consume(ctx, message(1, alice, "hi there"))
	require.NoError(t, err)
	assert.False(t, handled, "idle user is not authoring")

	require.NoError(t, f.machine.ArmFromCommand(ctx, message(2, alice, "/put_trigger greet")))
	prompt := f.messenger.last()
	assert.Equal(t, "Waiting media for <code>greet</code>", prompt.text)
	require.NotNil(t, prompt.keyboard)
	assert.Equal(t, "cancel_rect:2:1", prompt.keyboard.InlineKeyboard[0][0].CallbackData)

	state, err := f.machine.State(ctx, chatID, alice)
	require.NoError(t, err)
	assert.True(t, state.IsAwaiting())
	promptID := state.PromptMessageID

	handled, err = f.machine.Consume(ctx, message(3, bob, "Hello from bob"))
	require.NoError(t, err)
	assert.False(t, handled, "another user in the same chat is not affected")

	handled, err = f.machine.Consume(ctx, message(4, alice, "Hello!"))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, f.answers(t, e.ID, database.MEDIA_TEXT))

	reply := f.messenger.last()
	assert.Equal(t, "☑️put <code>greet</code>", reply.text)
	assert.Equal(t, int64(4), reply.replyTo)
	require.NotNil(t, reply.keyboard)
	assert.Equal(t, keyboards.AnotherOne{EventName: "greet"}.Data(), reply.keyboard.InlineKeyboard[0][0].CallbackData)
	assert.Contains(t, f.messenger.deleted, promptID)

	state, err = f.machine.State(ctx, chatID, alice)
	require.NoError(t, err)
	assert.False(t, state.IsAwaiting())
}

func TestArmUnknownEvent(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, f.machine.ArmFromCommand(ctx, message(1, alice, "/put_trigger nope")))
	assert.Equal(t, "Trigger event <code>nope</code> not found", f.messenger.last().text)

	state, err := f.machine.State(ctx, chatID, alice)
	require.NoError(t, err)
	assert.False(t, state.IsAwaiting())
}

func TestRejectUnsupportedAndRetry(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	e := f.event(t, "greet")
	require.NoError(t, f.machine.ArmFromCommand(ctx, message(1, alice, "/put_trigger greet")))

	voice := message(2, alice, "")
	voice.Voice = &update.File{FileID: "v1"}
	handled, err := f.machine.Consume(ctx, voice)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "<code>voice</code> is not a supported type for triggers. Try again.", f.messenger.last().text)

	doc := message(3, alice, "")
	doc.Document = &update.File{FileID: "d1"}
	handled, err = f.machine.Consume(ctx, doc)
	require.NoError(t, err)
	assert.True(t, handled)

	state, err := f.machine.State(ctx, chatID, alice)
	require.NoError(t, err)
	assert.True(t, state.IsAwaiting(), "rejection keeps the user armed")
	assert.Equal(t, 0, f.answers(t, e.ID, database.MEDIA_VOICE))

	sticker := message(4, alice, "")
	sticker.Sticker = &update.File{FileID: "st1"}
	handled, err = f.machine.Consume(ctx, sticker)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, f.answers(t, e.ID, database.MEDIA_STICKER))
}

func TestCancel(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	e := f.event(t, "greet")
	require.NoError(t, f.machine.ArmFromCommand(ctx, message(7, alice, "/put_trigger greet")))

	state, err := f.machine.State(ctx, chatID, alice)
	require.NoError(t, err)

	msg, err := f.machine.Cancel(ctx, chatID, bob, state.PromptMessageID)
	require.NoError(t, err)
	assert.Equal(t, "This prompt belongs to someone else", msg)

	msg, err = f.machine.Cancel(ctx, chatID, alice, state.PromptMessageID+1)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	still, err := f.machine.State(ctx, chatID, alice)
	require.NoError(t, err)
	assert.True(t, still.IsAwaiting())

	msg, err = f.machine.Cancel(ctx, chatID, alice, state.PromptMessageID)
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.ElementsMatch(t, []int64{7, state.PromptMessageID}, f.messenger.deleted)

	handled, err := f.machine.Consume(ctx, message(8, alice, "Hello!"))
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, 0, f.answers(t, e.ID, database.MEDIA_TEXT))
}

func TestArmAnotherKeepsBotMessage(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	f.event(t, "greet")

	require.NoError(t, f.machine.ArmAnother(ctx, chatID, alice, 42, "greet"))
	assert.Equal(t, []int64{42}, f.messenger.unmarked)

	state, err := f.machine.State(ctx, chatID, alice)
	require.NoError(t, err)
	require.True(t, state.IsAwaiting())
	assert.False(t, state.DeleteTrigger)

	_, err = f.machine.Cancel(ctx, chatID, alice, state.PromptMessageID)
	require.NoError(t, err)
	assert.Equal(t, []int64{state.PromptMessageID}, f.messenger.deleted)
}

func TestRearmLastWriteWins(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	f.event(t, "greet")
	bye := f.event(t, "bye")

	require.NoError(t, f.machine.ArmFromCommand(ctx, message(1, alice, "/put_trigger greet")))
	require.NoError(t, f.machine.ArmFromCommand(ctx, message(2, alice, "/put_trigger bye")))

	_, err := f.machine.Consume(ctx, message(3, alice, "see you"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.answers(t, bye.ID, database.MEDIA_TEXT))
}

func TestEventDeletedWhileArmed(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	f.event(t, "greet")
	require.NoError(t, f.machine.ArmFromCommand(ctx, message(1, alice, "/put_trigger greet")))

	ok, err := f.store.DeleteEventByName(ctx, chatID, "greet")
	require.NoError(t, err)
	require.True(t, ok)

	handled, err := f.machine.Consume(ctx, message(2, alice, "Hello!"))
	require.NoError(t, err)
	assert.True(t, handled)

	reply := f.messenger.last()
	assert.Equal(t, "Trigger event <code>greet</code> not found", reply.text)
	assert.Nil(t, reply.keyboard)

	state, err := f.machine.State(ctx, chatID, alice)
	require.NoError(t, err)
	assert.False(t, state.IsAwaiting())
}

func TestArmedStateExpires(t *testing.T) {
	f := newFixture(t, 10*time.Minute)
	ctx := context.Background()
	f.event(t, "greet")

	f.machine.now = func() time.Time { return time.Now().Add(-time.Hour) }
	require.NoError(t, f.machine.ArmFromCommand(ctx, message(1, alice, "/put_trigger greet")))

	handled, err := f.machine.Consume(ctx, message(2, alice, "Hello!"))
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts(database.MEDIA_TEXT))
	assert.True(t, Accepts(database.MEDIA_ANIMATION))
	assert.True(t, Accepts(database.MEDIA_STICKER))
	assert.False(t, Accepts(database.MEDIA_PHOTO))
	assert.False(t, Accepts(database.MEDIA_VOICE))
}

const serverError = "Something went wrong. Try again later."

func TestArmStateSaveFails(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	f.event(t, "greet")
	f.states.set = true

	require.NoError(t, f.machine.ArmFromCommand(ctx, message(1, alice, "/put_trigger greet")))

	require.Len(t, f.messenger.sent, 2)
	prompt := f.messenger.sent[0]
	assert.Equal(t, "Waiting media for <code>greet</code>", prompt.text)
	assert.Equal(t, []int64{501}, f.messenger.deleted, "prompt without state is removed")
	assert.Equal(t, serverError, f.messenger.last().text)

	f.states.set = false
	state, err := f.machine.State(ctx, chatID, alice)
	require.NoError(t, err)
	assert.False(t, state.IsAwaiting())
}

func TestConsumeStateLoadFails(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	f.states.get = true

	handled, err := f.machine.Consume(ctx, message(1, alice, "Hello!"))
	require.NoError(t, err)
	assert.True(t, handled)

	reply := f.messenger.last()
	assert.Equal(t, serverError, reply.text)
	assert.Equal(t, int64(1), reply.replyTo)
}

func TestConsumeStateClearFails(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	e := f.event(t, "greet")
	require.NoError(t, f.machine.ArmFromCommand(ctx, message(1, alice, "/put_trigger greet")))

	f.states.clear = true
	handled, err := f.machine.Consume(ctx, message(2, alice, "Hello!"))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, serverError, f.messenger.last().text)
	assert.Equal(t, 0, f.answers(t, e.ID, database.MEDIA_TEXT), "answer is not stored while the user stays armed")

	// после восстановления хранилища тот же ответ сохраняется один раз
	f.states.clear = false
	handled, err = f.machine.Consume(ctx, message(3, alice, "Hello!"))
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, f.answers(t, e.ID, database.MEDIA_TEXT))
	assert.Equal(t, "☑️put <code>greet</code>", f.messenger.last().text)
}

func TestCancelStateClearFails(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx := context.Background()
	f.event(t, "greet")
	require.NoError(t, f.machine.ArmFromCommand(ctx, message(7, alice, "/put_trigger greet")))

	state, err := f.machine.State(ctx, chatID, alice)
	require.NoError(t, err)

	f.states.clear = true
	_, err = f.machine.Cancel(ctx, chatID, alice, state.PromptMessageID)
	assert.ErrorIs(t, err, errStatesDown)
	assert.Empty(t, f.messenger.deleted, "messages stay while the user is still armed")
}
