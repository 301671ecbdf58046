package services

import (
	"context"
	"fmt"
	"strings"

	"campuschat/internal/domain"
	"campuschat/internal/repository"
	chat_errors "campuschat/pkg/errors"
)

const GeneralChannelID = "gen"

// Directory resolves and provisions channel identity. Channel ids are
// semantically structured for most kinds so that independent clients
// converge on the same channel without coordination.
type Directory struct {
	channels repository.ChannelRepository
}

func NewDirectory(channels repository.ChannelRepository) *Directory {
	return &Directory{channels: channels}
}

// ResolveDM returns the DM channel id for two users. Order-independent:
// the lexicographically lower id always comes first.
func ResolveDM(userA, userB string) string {
	lo, hi := userA, userB
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("dm-%s-%s", lo, hi)
}

// SectionChannelID builds a section channel id.
func SectionChannelID(year, block string) string {
	return fmt.Sprintf("SEC-%s-%s", year, block)
}

// SectionSubjectChannelID builds a section-subject channel id.
func SectionSubjectChannelID(year, block, subjectCode string) string {
	return fmt.Sprintf("SEC-%s-%s::%s", year, block, subjectCode)
}

// DefaultsFor derives lazy-creation defaults from a channel id's shape.
// Unrecognized ids are treated as ad-hoc section groups.
func DefaultsFor(id string) domain.Channel {
	ch := domain.Channel{ID: id, Name: id}
	switch {
	case id == GeneralChannelID:
		ch.Name = "General"
		ch.Kind = domain.KindGeneral
	case strings.HasPrefix(id, "dm-"):
		ch.Name = "Direct Message"
		ch.Kind = domain.KindDM
	case strings.HasPrefix(id, "SEC-") && strings.Contains(id, "::"):
		ch.Kind = domain.KindSectionSubject
	case strings.HasPrefix(id, "SEC-"):
		ch.Kind = domain.KindSection
	default:
		ch.Kind = domain.KindSectionGroup
	}
	return ch
}

// EnsureChannel upserts a channel. Existing rows keep their curated
// name/kind; concurrent calls for the same id yield one row.
func (d *Directory) EnsureChannel(ctx context.Context, id string, defaults domain.Channel) (domain.Channel, error) {
	if id == "" {
		return domain.Channel{}, chat_errors.ErrInvalidInput
	}
	defaults.ID = id
	if defaults.Kind == "" {
		defaults.Kind = DefaultsFor(id).Kind
	}
	if defaults.Name == "" {
		defaults.Name = DefaultsFor(id).Name
	}
	return d.channels.Ensure(ctx, defaults)
}

// EnsureDM provisions (or finds) the DM channel for two users.
func (d *Directory) EnsureDM(ctx context.Context, userA, userB string) (domain.Channel, error) {
	if userA == "" || userB == "" {
		return domain.Channel{}, chat_errors.ErrInvalidInput
	}
	return d.EnsureChannel(ctx, ResolveDM(userA, userB), domain.Channel{
		Name: "Direct Message",
		Kind: domain.KindDM,
	})
}

// ListChannels returns every provisioned channel.
func (d *Directory) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	return d.channels.List(ctx)
}

// GetChannel returns one channel by id.
func (d *Directory) GetChannel(ctx context.Context, id string) (domain.Channel, error) {
	return d.channels.GetByID(ctx, id)
}

// DeleteGroupChannel removes a section-group channel. Only the channel's
// owner (or an admin) may delete it, and only section-groups are ever
// deleted; every other kind is permanent.
func (d *Directory) DeleteGroupChannel(ctx context.Context, id, actorID, actorRole string) error {
	ch, err := d.channels.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ch.Kind != domain.KindSectionGroup {
		return chat_errors.ErrForbidden
	}
	if ch.CreatedBy != actorID && actorRole != "admin" {
		return chat_errors.ErrForbidden
	}
	return d.channels.Delete(ctx, id)
}
