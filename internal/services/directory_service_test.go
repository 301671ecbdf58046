package services

import (
	"context"
	"testing"

	"campuschat/internal/domain"
	"campuschat/internal/repository"
	chat_errors "campuschat/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDMIsOrderIndependent(t *testing.T) {
	assert.Equal(t, ResolveDM("alice", "bob"), ResolveDM("bob", "alice"))
	assert.Equal(t, "dm-alice-bob", ResolveDM("bob", "alice"))
}

func TestSectionChannelIDs(t *testing.T) {
	assert.Equal(t, "SEC-2026-A", SectionChannelID("2026", "A"))
	assert.Equal(t, "SEC-2026-A::MATH101", SectionSubjectChannelID("2026", "A", "MATH101"))
}

func TestDefaultsForClassifiesByShape(t *testing.T) {
	cases := []struct {
		id   string
		kind domain.ChannelKind
	}{
		{"gen", domain.KindGeneral},
		{"dm-alice-bob", domain.KindDM},
		{"SEC-2026-A", domain.KindSection},
		{"SEC-2026-A::MATH101", domain.KindSectionSubject},
		{"study-buddies", domain.KindSectionGroup},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, DefaultsFor(tc.id).Kind, tc.id)
	}
}

func TestEnsureChannelKeepsExistingMetadata(t *testing.T) {
	repo := repository.NewMockChannelRepository()
	dir := NewDirectory(repo)

	first, err := dir.EnsureChannel(context.Background(), "SEC-2026-A", domain.Channel{Name: "Section A"})
	require.NoError(t, err)
	assert.Equal(t, "Section A", first.Name)

	second, err := dir.EnsureChannel(context.Background(), "SEC-2026-A", domain.Channel{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Section A", second.Name)
}

func TestEnsureDMValidatesUsers(t *testing.T) {
	dir := NewDirectory(repository.NewMockChannelRepository())

	_, err := dir.EnsureDM(context.Background(), "", "bob")
	assert.ErrorIs(t, err, chat_errors.ErrInvalidInput)

	ch, err := dir.EnsureDM(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, "dm-alice-bob", ch.ID)
	assert.Equal(t, domain.KindDM, ch.Kind)
}

func TestDeleteGroupChannelAuthorization(t *testing.T) {
	repo := repository.NewMockChannelRepository()
	dir := NewDirectory(repo)

	_, err := dir.EnsureChannel(context.Background(), "study-buddies", domain.Channel{
		Kind:      domain.KindSectionGroup,
		CreatedBy: "owner-1",
	})
	require.NoError(t, err)
	_, err = dir.EnsureChannel(context.Background(), "gen", domain.Channel{Kind: domain.KindGeneral})
	require.NoError(t, err)

	err = dir.DeleteGroupChannel(context.Background(), "study-buddies", "stranger", "student")
	assert.ErrorIs(t, err, chat_errors.ErrForbidden)

	err = dir.DeleteGroupChannel(context.Background(), "gen", "owner-1", "admin")
	assert.ErrorIs(t, err, chat_errors.ErrForbidden)

	err = dir.DeleteGroupChannel(context.Background(), "missing", "owner-1", "admin")
	assert.ErrorIs(t, err, chat_errors.ErrNotFound)

	err = dir.DeleteGroupChannel(context.Background(), "study-buddies", "owner-1", "student")
	require.NoError(t, err)
	_, err = dir.GetChannel(context.Background(), "study-buddies")
	assert.ErrorIs(t, err, chat_errors.ErrNotFound)
}

func TestDeleteGroupChannelAdminOverride(t *testing.T) {
	repo := repository.NewMockChannelRepository()
	dir := NewDirectory(repo)

	_, err := dir.EnsureChannel(context.Background(), "club-chess", domain.Channel{
		Kind:      domain.KindSectionGroup,
		CreatedBy: "owner-1",
	})
	require.NoError(t, err)

	err = dir.DeleteGroupChannel(context.Background(), "club-chess", "moderator", "admin")
	require.NoError(t, err)
}
