package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	rankingKeyPrefix        = "ranking:"
	rankingGenerationPrefix = "ranking-gen:"
)

// RankingCacheKey identifies one ranking of a pool. The pool order does not matter.
func RankingCacheKey(companyID, projectID uuid.UUID, pool []uuid.UUID) string {
	ids := make([]uuid.UUID, len(pool))
	copy(ids, pool)
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })

	h := sha256.New()
	for _, id := range ids {
		h.Write(id[:])
	}
	return RankingProjectPrefix(companyID, projectID) + hex.EncodeToString(h.Sum(nil))
}

func RankingProjectPrefix(companyID, projectID uuid.UUID) string {
	return rankingKeyPrefix + companyID.String() + ":" + projectID.String() + ":"
}

func RankingProjectPattern(companyID, projectID uuid.UUID) string {
	return RankingProjectPrefix(companyID, projectID) + "*"
}

func RankingCompanyPattern(companyID uuid.UUID) string {
	return rankingKeyPrefix + companyID.String() + ":*"
}

// RankingGenerationKey holds the invalidation generation of one project's rankings. A nil
// projectID names the company-wide generation.
func RankingGenerationKey(companyID, projectID uuid.UUID) string {
	if projectID == uuid.Nil {
		return rankingGenerationPrefix + companyID.String()
	}
	return rankingGenerationPrefix + companyID.String() + ":" + projectID.String()
}

type rankingStamp struct {
	companyID uuid.UUID
	projectID uuid.UUID
	company   string
	project   string
}

func readRankingStamp(ctx context.Context, cache RankingCache, logger *zap.Logger, companyID, projectID uuid.UUID) rankingStamp {
	st := rankingStamp{companyID: companyID, projectID: projectID}
	if _, err := cache.GetJSON(ctx, RankingGenerationKey(companyID, uuid.Nil), &st.company); err != nil {
		logger.Debug("ranking generation read failed", zap.Error(err))
	}
	if _, err := cache.GetJSON(ctx, RankingGenerationKey(companyID, projectID), &st.project); err != nil {
		logger.Debug("ranking generation read failed", zap.Error(err))
	}
	return st
}

// invalidateRankings bumps the generation before deleting, so a ranking computed against
// the old data is not written back after the delete.
func invalidateRankings(ctx context.Context, cache RankingCache, companyID, projectID uuid.UUID) error {
	if err := cache.SetJSON(ctx, RankingGenerationKey(companyID, projectID), uuid.NewString(), 0); err != nil {
		return err
	}
	pattern := RankingCompanyPattern(companyID)
	if projectID != uuid.Nil {
		pattern = RankingProjectPattern(companyID, projectID)
	}
	return cache.DeleteByPattern(ctx, pattern)
}
