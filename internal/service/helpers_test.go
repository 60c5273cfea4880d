package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vilyx-net/vector/internal/auth"
	"github.com/vilyx-net/vector/internal/config"
	"github.com/vilyx-net/vector/internal/domain"
	"github.com/vilyx-net/vector/internal/events"
	"github.com/vilyx-net/vector/internal/gateway"
	"github.com/vilyx-net/vector/internal/observability"
	"github.com/vilyx-net/vector/internal/repository"
)

const testDefaultRoleID = "guild-1"

func testRoleConfig() config.RoleConfig {
	return config.RoleConfig{IDs: map[domain.RoleKey]string{
		domain.RoleMember:    "role-member",
		domain.RoleMod:       "role-mod",
		domain.RoleSrMod:     "role-sr-mod",
		domain.RoleAdmin:     "role-admin",
		domain.RoleSrAdmin:   "role-sr-admin",
		domain.RoleManager:   "role-manager",
		domain.RoleOwner:     "role-owner",
		domain.RoleStaff:     "role-staff",
		domain.RoleDeveloper: "role-developer",
	}}
}

func testTicketConfig() config.TicketConfig {
	return config.TicketConfig{
		GeneralCategoryID:    "cat-general",
		StaffStoreCategoryID: "cat-staff-store",
		ArchivedCategoryID:   "cat-archived",
		CloseCountdownSecs:   3,
	}
}

type fakeChannel struct {
	name     string
	parentID string
	inherit  bool
}

type sentMessage struct {
	channelID string
	msg       gateway.Message
}

type editedMessage struct {
	channelID string
	messageID string
	msg       gateway.Message
}

type fakeGateway struct {
	mu sync.Mutex

	memberRoles map[string][]string
	channels    map[string]*fakeChannel
	nextChannel int

	created  []gateway.ChannelCreate
	sent     []sentMessage
	edited   []editedMessage
	directs  map[string][]gateway.Message
	deleted  []string
	failSend bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		memberRoles: make(map[string][]string),
		channels:    make(map[string]*fakeChannel),
		directs:     make(map[string][]gateway.Message),
	}
}

func (f *fakeGateway) CreateChannel(ctx context.Context, create gateway.ChannelCreate) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextChannel++
	id := fmt.Sprintf("chan-%d", f.nextChannel)
	f.channels[id] = &fakeChannel{name: create.Name, parentID: create.ParentID}
	f.created = append(f.created, create)
	return id, nil
}

func (f *fakeGateway) EditChannel(ctx context.Context, channelID string, edit gateway.ChannelEdit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return errors.New("unknown channel")
	}
	if edit.Name != "" {
		ch.name = edit.Name
	}
	if edit.ParentID != "" {
		ch.parentID = edit.ParentID
	}
	ch.inherit = edit.InheritPermissions
	return nil
}

func (f *fakeGateway) DeleteChannel(ctx context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.channels, channelID)
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakeGateway) ChannelName(ctx context.Context, channelID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return "", errors.New("unknown channel")
	}
	return ch.name, nil
}

func (f *fakeGateway) SendMessage(ctx context.Context, channelID string, msg gateway.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return "", errors.New("send failed")
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, msg: msg})
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

func (f *fakeGateway) EditMessage(ctx context.Context, channelID, messageID string, msg gateway.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edited = append(f.edited, editedMessage{channelID: channelID, messageID: messageID, msg: msg})
	return nil
}

func (f *fakeGateway) SendDirect(ctx context.Context, userID string, msg gateway.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directs[userID] = append(f.directs[userID], msg)
	return nil
}

func (f *fakeGateway) MemberRoles(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.memberRoles[userID]...), nil
}

func (f *fakeGateway) AddRole(ctx context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.memberRoles[userID] {
		if id == roleID {
			return nil
		}
	}
	f.memberRoles[userID] = append(f.memberRoles[userID], roleID)
	return nil
}

func (f *fakeGateway) RemoveRole(ctx context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	held := f.memberRoles[userID]
	out := held[:0]
	for _, id := range held {
		if id != roleID {
			out = append(out, id)
		}
	}
	f.memberRoles[userID] = out
	return nil
}

func (f *fakeGateway) channel(channelID string) fakeChannel {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return fakeChannel{}
	}
	return *ch
}

func (f *fakeGateway) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeGateway) lastEdit() (editedMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edited) == 0 {
		return editedMessage{}, false
	}
	return f.edited[len(f.edited)-1], true
}

func (f *fakeGateway) directCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.directs[userID])
}

type lifecycleFixture struct {
	lifecycle *Lifecycle
	gw        *fakeGateway
	store     repository.TicketStore
	clock     *clock.Mock
}

func newLifecycleFixture() *lifecycleFixture {
	gw := newFakeGateway()
	store := repository.NewMemoryTicketStore()
	mock := clock.NewMock()
	roleCfg := testRoleConfig()

	lifecycle := NewLifecycle(LifecycleDeps{
		Channels:      config.ChannelConfig{Logs: "chan-logs"},
		Roles:         roleCfg,
		Tickets:       testTicketConfig(),
		DefaultRoleID: testDefaultRoleID,
		Store:         store,
		Gateway:       gw,
		RoleChecker:   auth.NewRoleChecker(roleCfg, gw),
		Dispatcher:    events.NewInMemoryDispatcher(),
		Logger:        zap.NewNop(),
		Metrics:       observability.NewMetrics(),
		Clock:         mock,
	})
	return &lifecycleFixture{lifecycle: lifecycle, gw: gw, store: store, clock: mock}
}

// advance steps the mock clock one tick at a time, yielding between steps
// so the countdown goroutine can observe each wakeup.
func (fx *lifecycleFixture) advance(seconds int) {
	for i := 0; i < seconds; i++ {
		time.Sleep(10 * time.Millisecond)
		fx.clock.Add(time.Second)
	}
	time.Sleep(10 * time.Millisecond)
}

func waitDone(t interface{ Fatalf(string, ...any) }, cd *CloseCountdown) {
	select {
	case <-cd.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown did not resolve in time")
	}
}
