package database

import (
	"context"
	"fmt"
	"log"

	"campuschat/internal/domain"
	"campuschat/internal/repository"
)

// SeedConfig holds configuration for seeding the channel directory.
// Section/subject provisioning normally arrives from the enrollment
// system; the seed stands in for it on fresh installs.
type SeedConfig struct {
	SectionYear   string
	SectionBlocks []string
	SubjectCodes  []string
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		SectionYear:   "2026",
		SectionBlocks: []string{"A", "B"},
		SubjectCodes:  []string{"MATH101", "PHYS101"},
	}
}

// Seed provisions the general channel plus section and section-subject
// channels for the configured blocks. Idempotent: existing channels keep
// their curated metadata.
func Seed(ctx context.Context, channels repository.ChannelRepository, cfg *SeedConfig) error {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	log.Println("Seeding channel directory...")

	if _, err := channels.Ensure(ctx, domain.Channel{
		ID:   "gen",
		Name: "General",
		Kind: domain.KindGeneral,
	}); err != nil {
		return fmt.Errorf("failed to seed general channel: %w", err)
	}

	for _, block := range cfg.SectionBlocks {
		sectionID := fmt.Sprintf("SEC-%s-%s", cfg.SectionYear, block)
		if _, err := channels.Ensure(ctx, domain.Channel{
			ID:   sectionID,
			Name: fmt.Sprintf("Section %s-%s", cfg.SectionYear, block),
			Kind: domain.KindSection,
		}); err != nil {
			return fmt.Errorf("failed to seed section channel %s: %w", sectionID, err)
		}

		for _, subject := range cfg.SubjectCodes {
			subjectID := fmt.Sprintf("%s::%s", sectionID, subject)
			if _, err := channels.Ensure(ctx, domain.Channel{
				ID:   subjectID,
				Name: fmt.Sprintf("%s (%s-%s)", subject, cfg.SectionYear, block),
				Kind: domain.KindSectionSubject,
			}); err != nil {
				return fmt.Errorf("failed to seed subject channel %s: %w", subjectID, err)
			}
		}
	}

	log.Println("Channel directory seeding complete")
	return nil
}
