package moderation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ivankudzin/sanctionbot/internal/domain/enums"
	"github.com/ivankudzin/sanctionbot/internal/domain/model"
	"github.com/ivankudzin/sanctionbot/internal/repo/memory"
	"github.com/ivankudzin/sanctionbot/internal/services/audit"
)

type roleCall struct {
	guildID, userID, roleID, reason string
}

type fakePlatform struct {
	roles      map[string]model.Role
	members    map[string]model.Member
	users      map[string]model.User
	banned     map[string]bool
	createErr  error
	addErr     error
	timeoutErr error
	banErr     error

	created  []string
	added    []roleCall
	removed  []roleCall
	timeouts []*time.Time
	reasons  []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		roles:   map[string]model.Role{},
		members: map[string]model.Member{},
		users:   map[string]model.User{},
		banned:  map[string]bool{},
	}
}

func (f *fakePlatform) FetchMember(_ context.Context, guildID, userID string) (model.Member, error) {
	member, ok := f.members[guildID+"/"+userID]
	if !ok {
		return model.Member{}, fmt.Errorf("member %s: %w", userID, model.ErrNotFound)
	}
	return member, nil
}

func (f *fakePlatform) FetchUser(_ context.Context, userID string) (model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
	}
	return user, nil
}

func (f *fakePlatform) FindRoleByName(_ context.Context, guildID, name string) (model.Role, error) {
	role, ok := f.roles[guildID+"/"+name]
	if !ok {
		return model.Role{}, model.ErrNotFound
	}
	return role, nil
}

func (f *fakePlatform) CreateMuteRole(_ context.Context, guildID, name string) (model.Role, error) {
	if f.createErr != nil {
		return model.Role{}, f.createErr
	}
	role := model.Role{ID: "role-" + guildID, Name: name}
	f.roles[guildID+"/"+name] = role
	f.created = append(f.created, guildID)
	return role, nil
}

func (f *fakePlatform) AddRole(_ context.Context, guildID, userID, roleID, reason string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, roleCall{guildID, userID, roleID, reason})
	return nil
}

func (f *fakePlatform) RemoveRole(_ context.Context, guildID, userID, roleID, reason string) error {
	f.removed = append(f.removed, roleCall{guildID, userID, roleID, reason})
	return nil
}

func (f *fakePlatform) SetTimeout(_ context.Context, _, _ string, until *time.Time, reason string) error {
	if f.timeoutErr != nil {
		return f.timeoutErr
	}
	f.timeouts = append(f.timeouts, until)
	f.reasons = append(f.reasons, reason)
	return nil
}

func (f *fakePlatform) Ban(_ context.Context, _, userID, reason string) error {
	if f.banErr != nil {
		return f.banErr
	}
	f.banned[userID] = true
	f.reasons = append(f.reasons, reason)
	return nil
}

func (f *fakePlatform) Unban(_ context.Context, _, userID, _ string) error {
	if !f.banned[userID] {
		return fmt.Errorf("ban %s: %w", userID, model.ErrNotFound)
	}
	delete(f.banned, userID)
	return nil
}

var (
	moderator = Actor{ID: "m1", Name: "mod#0001", CanModerate: true, CanBan: true}
	admin     = Actor{ID: "a1", Name: "admin", Administrator: true}
	bystander = Actor{ID: "x1", Name: "nobody"}
	fixedNow  = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
)

func newTestService(platform *fakePlatform) (*Service, *memory.SanctionRepo) {
	store := memory.NewSanctionRepo()
	svc := NewService(store, platform, nil, nil, "")
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func TestTempMuteRecordsSanction(t *testing.T) {
	platform := newFakePlatform()
	platform.roles["g1/Muted"] = model.Role{ID: "r1", Name: "Muted"}
	svc, store := newTestService(platform)

	sanction, err := svc.TempMute(context.Background(), SanctionInput{
		GuildID: "g1", Actor: moderator, TargetID: "u1", Duration: "1h", Reason: "Spam",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), sanction.ID)
	assert.Equal(t, enums.SanctionKindTempMute, sanction.Kind)
	require.NotNil(t, sanction.DurationSec)
	assert.Equal(t, int64(3600), *sanction.DurationSec)
	assert.Equal(t, "Spam", sanction.Reason)
	assert.Equal(t, "m1", sanction.IssuerUserID)
	assert.False(t, sanction.Expired)

	require.Len(t, platform.added, 1)
	assert.Equal(t, roleCall{"g1", "u1", "r1", "Tempmute: Spam | By: mod#0001"}, platform.added[0])
	assert.Len(t, store.FindByUser("u1").Mutes, 1)
}

func TestTempMuteProvisionsMissingRole(t *testing.T) {
	platform := newFakePlatform()
	svc, _ := newTestService(platform)

	_, err := svc.TempMute(context.Background(), SanctionInput{
		GuildID: "g1", Actor: moderator, TargetID: "u1", Duration: "5m", Reason: "Harassment",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, platform.created)
	assert.Equal(t, "role-g1", platform.added[0].roleID)
}

func TestTempMuteFailuresLeaveNoRecord(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*fakePlatform)
		wantErr error
	}{
		{
			name:    "role provisioning",
			setup:   func(f *fakePlatform) { f.createErr = errors.New("missing permissions") },
			wantErr: ErrRoleProvisioningFailed,
		},
		{
			name:    "role assignment",
			setup:   func(f *fakePlatform) { f.addErr = errors.New("hierarchy") },
			wantErr: ErrPlatformOperationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := newFakePlatform()
			tt.setup(platform)
			svc, store := newTestService(platform)

			_, err := svc.TempMute(context.Background(), SanctionInput{
				GuildID: "g1", Actor: moderator, TargetID: "u1", Duration: "1h", Reason: "Spam",
			})
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, store.FindByUser("u1").Empty())
		})
	}
}

func TestTempMuteRejectsUnknownChoices(t *testing.T) {
	svc, _ := newTestService(newFakePlatform())

	_, err := svc.TempMute(context.Background(), SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u1", Duration: "2h", Reason: "Spam"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.TempMute(context.Background(), SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u1", Duration: "1h", Reason: "Rule violation"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPermissionDeniedBeforeAnyStateChange(t *testing.T) {
	platform := newFakePlatform()
	svc, store := newTestService(platform)
	ctx := context.Background()

	_, err := svc.TempMute(ctx, SanctionInput{GuildID: "g1", Actor: bystander, TargetID: "u1", Duration: "1h", Reason: "Spam"})
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Ban(ctx, SanctionInput{GuildID: "g1", Actor: Actor{ID: "m2", CanModerate: true}, TargetID: "u1", Reason: "raid"})
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.CountAll(moderator, "u1")
	require.ErrorIs(t, err, ErrPermissionDenied)

	assert.Empty(t, platform.added)
	assert.Empty(t, platform.banned)
	assert.True(t, store.FindByUser("u1").Empty())
}

func TestUnmute(t *testing.T) {
	platform := newFakePlatform()
	platform.roles["g1/Muted"] = model.Role{ID: "r1", Name: "Muted"}
	platform.members["g1/u1"] = model.Member{GuildID: "g1", UserID: "u1", RoleIDs: []string{"r1"}}
	platform.members["g1/u2"] = model.Member{GuildID: "g1", UserID: "u2"}
	svc, _ := newTestService(platform)
	ctx := context.Background()

	require.NoError(t, svc.Unmute(ctx, RevertInput{GuildID: "g1", Actor: moderator, TargetID: "u1"}))
	require.Len(t, platform.removed, 1)
	assert.Equal(t, "Unmute: No reason given | By: mod#0001", platform.removed[0].reason)

	err := svc.Unmute(ctx, RevertInput{GuildID: "g1", Actor: moderator, TargetID: "u2"})
	require.ErrorIs(t, err, ErrTargetNotSanctioned)

	err = svc.Unmute(ctx, RevertInput{GuildID: "g2", Actor: moderator, TargetID: "u1"})
	require.ErrorIs(t, err, ErrTargetNotSanctioned)
}

func TestTimeoutSetsUntilAndRecords(t *testing.T) {
	platform := newFakePlatform()
	svc, store := newTestService(platform)

	sanction, err := svc.Timeout(context.Background(), SanctionInput{
		GuildID: "g1", Actor: moderator, TargetID: "u1", Duration: "1w", Reason: "Toxic behavior",
	})
	require.NoError(t, err)

	require.Len(t, platform.timeouts, 1)
	require.NotNil(t, platform.timeouts[0])
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), *platform.timeouts[0])
	assert.Equal(t, int64(604800), *sanction.DurationSec)
	assert.Len(t, store.FindByUser("u1").Timeouts, 1)
}

func TestTimeoutPlatformFailureLeavesNoRecord(t *testing.T) {
	platform := newFakePlatform()
	platform.timeoutErr = errors.New("forbidden")
	svc, store := newTestService(platform)

	_, err := svc.Timeout(context.Background(), SanctionInput{
		GuildID: "g1", Actor: moderator, TargetID: "u1", Duration: "5m", Reason: "Rule violation",
	})
	require.ErrorIs(t, err, ErrPlatformOperationFailed)
	assert.True(t, store.FindByUser("u1").Empty())
}

func TestUntimeout(t *testing.T) {
	platform := newFakePlatform()
	until := fixedNow.Add(time.Hour)
	platform.members["g1/u1"] = model.Member{UserID: "u1", TimedOutUntil: &until}
	platform.members["g1/u2"] = model.Member{UserID: "u2"}
	svc, _ := newTestService(platform)
	ctx := context.Background()

	require.NoError(t, svc.Untimeout(ctx, RevertInput{GuildID: "g1", Actor: moderator, TargetID: "u1", Reason: "appeal"}))
	require.Len(t, platform.timeouts, 1)
	assert.Nil(t, platform.timeouts[0])
	assert.Equal(t, "Untimeout: appeal | By: mod#0001", platform.reasons[0])

	err := svc.Untimeout(ctx, RevertInput{GuildID: "g1", Actor: moderator, TargetID: "u2"})
	require.ErrorIs(t, err, ErrTargetNotSanctioned)
}

func TestBanAndUnban(t *testing.T) {
	platform := newFakePlatform()
	platform.users["123456789"] = model.User{ID: "123456789", Username: "raider"}
	svc, store := newTestService(platform)
	ctx := context.Background()

	sanction, err := svc.Ban(ctx, SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "123456789", Reason: "raid"})
	require.NoError(t, err)
	assert.Nil(t, sanction.DurationSec)
	assert.Len(t, store.FindByUser("123456789").Bans, 1)

	user, err := svc.Unban(ctx, "g1", moderator, " 123456789 ")
	require.NoError(t, err)
	assert.Equal(t, "raider", user.Username)

	_, err = svc.Unban(ctx, "g1", moderator, "123456789")
	require.ErrorIs(t, err, ErrTargetNotSanctioned)

	_, err = svc.Unban(ctx, "g1", moderator, "12ab")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Unban(ctx, "g1", moderator, "42")
	require.ErrorIs(t, err, ErrTargetNotSanctioned)
}

func TestBanRequiresReason(t *testing.T) {
	platform := newFakePlatform()
	svc, _ := newTestService(platform)

	_, err := svc.Ban(context.Background(), SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u1", Reason: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, platform.banned)
}

func TestWarnUsesOwnIDSequence(t *testing.T) {
	platform := newFakePlatform()
	svc, _ := newTestService(platform)
	ctx := context.Background()

	_, err := svc.Ban(ctx, SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u1", Reason: "raid"})
	require.NoError(t, err)

	first, err := svc.Warn(ctx, SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u1", Reason: "caps"})
	require.NoError(t, err)
	second, err := svc.Warn(ctx, SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u2", Reason: "caps"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, enums.SanctionKindWarning, second.Kind)
}

func TestEraseAll(t *testing.T) {
	platform := newFakePlatform()
	platform.roles["g1/Muted"] = model.Role{ID: "r1", Name: "Muted"}
	svc, store := newTestService(platform)
	ctx := context.Background()

	_, err := svc.TempMute(ctx, SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u1", Duration: "5m", Reason: "Spam"})
	require.NoError(t, err)
	_, err = svc.Warn(ctx, SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u1", Reason: "caps"})
	require.NoError(t, err)
	_, err = svc.Warn(ctx, SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u2", Reason: "caps"})
	require.NoError(t, err)
	require.True(t, store.MarkExpired(enums.SanctionKindTempMute, 1))

	total, err := svc.CountAll(admin, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	other := Actor{ID: "a2", Administrator: true}
	_, err = svc.EraseAll(ctx, "g1", admin.ID, other, "u1")
	require.ErrorIs(t, err, ErrNotPermittedActor)
	assert.Equal(t, 2, store.CountByUser("u1"))

	removed, err := svc.EraseAll(ctx, "g1", admin.ID, admin, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.True(t, store.FindByUser("u1").Empty())
	assert.Len(t, store.FindByUser("u2").Warnings, 1)
}

func TestHistoryHidesExpiredMutes(t *testing.T) {
	platform := newFakePlatform()
	platform.roles["g1/Muted"] = model.Role{ID: "r1", Name: "Muted"}
	svc, store := newTestService(platform)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.TempMute(ctx, SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u1", Duration: "5m", Reason: "Spam"})
		require.NoError(t, err)
	}
	require.True(t, store.MarkExpired(enums.SanctionKindTempMute, 1))

	records, err := svc.History(ctx, "g1", moderator, "u1")
	require.NoError(t, err)
	require.Len(t, records.Mutes, 1)
	assert.Equal(t, int64(2), records.Mutes[0].ID)

	_, err = svc.History(ctx, "g1", bystander, "u1")
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestLookupDuration(t *testing.T) {
	choice, ok := LookupDuration(TempMuteDurations, "15m")
	require.True(t, ok)
	assert.Equal(t, int64(900), choice.Seconds)

	_, ok = LookupDuration(TimeoutDurations, "15m")
	assert.False(t, ok)
}

// staleCountStore reports no records on count, so erase results must come from the delete itself.
type staleCountStore struct {
	*memory.SanctionRepo
}

func (staleCountStore) CountByUser(string) int { return 0 }

func TestEraseAllReportsDeletedRecords(t *testing.T) {
	store := staleCountStore{memory.NewSanctionRepo()}
	store.Insert(model.NewSanction(enums.SanctionKindBan, "u1", "m1", "raid", nil, fixedNow))
	store.Insert(model.NewSanction(enums.SanctionKindWarning, "u1", "m1", "caps", nil, fixedNow))
	svc := NewService(store, newFakePlatform(), nil, nil, "")

	removed, err := svc.EraseAll(context.Background(), "g1", admin.ID, admin, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.True(t, store.FindByUser("u1").Empty())
}

func TestCanErase(t *testing.T) {
	svc, _ := newTestService(newFakePlatform())

	assert.NoError(t, svc.CanErase(admin.ID, admin))
	assert.ErrorIs(t, svc.CanErase(admin.ID, Actor{ID: "a2", Administrator: true}), ErrNotPermittedActor)
	assert.ErrorIs(t, svc.CanErase(moderator.ID, moderator), ErrPermissionDenied)
}

type failingAuditRepo struct{}

func (failingAuditRepo) Save(context.Context, model.Audit) error {
	return errors.New("audit store unavailable")
}

func (failingAuditRepo) ListRecent(context.Context, int) ([]model.Audit, error) {
	return nil, nil
}

func TestAuditFailureDoesNotFailAction(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := memory.NewSanctionRepo()
	svc := NewService(store, newFakePlatform(), audit.NewService(failingAuditRepo{}, zap.New(core)), nil, "")

	sanction, err := svc.Warn(context.Background(), SanctionInput{GuildID: "g1", Actor: moderator, TargetID: "u1", Reason: "caps"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sanction.ID)
	assert.Equal(t, 1, store.CountByUser("u1"))
	assert.Equal(t, 1, logs.FilterMessage("audit entry not stored").Len())
}
