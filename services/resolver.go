package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ideaswipe_server/apperrors"
	"ideaswipe_server/models"
	"ideaswipe_server/repositories"
)

// resolver fills payloads with profile and idea summaries so clients need no extra lookups.
type resolver struct {
	ideas repositories.IdeaDirectory
	users repositories.UserDirectory
	log   *zap.SugaredLogger
}

// profiles never omits a requested id; unknown users get an id-only profile.
func (r *resolver) profiles(ctx context.Context, ids ...string) (map[string]models.UserProfile, error) {
	found, err := r.users.GetProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			found[id] = models.UserProfile{UserID: id}
		}
	}
	return found, nil
}

// ideaSummaries tolerates ideas deleted upstream.
func (r *resolver) ideaSummaries(ctx context.Context, ids ...string) (map[string]models.IdeaSummary, error) {
	out := make(map[string]models.IdeaSummary, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		idea, err := r.ideas.GetIdea(ctx, id)
		switch {
		case err == nil:
			out[id] = idea.Summary()
		case errors.Is(err, repositories.ErrNotFound):
			out[id] = models.IdeaSummary{ID: id}
		default:
			return nil, err
		}
	}
	return out, nil
}

func (r *resolver) matchViews(ctx context.Context, matches []models.Match) ([]models.MatchView, error) {
	userIDs := make([]string, 0, len(matches)*2)
	ideaIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		userIDs = append(userIDs, m.UserA, m.UserB)
		ideaIDs = append(ideaIDs, m.IdeaID)
	}
	profiles, err := r.profiles(ctx, userIDs...)
	if err != nil {
		return nil, err
	}
	ideas, err := r.ideaSummaries(ctx, ideaIDs...)
	if err != nil {
		return nil, err
	}

	views := make([]models.MatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, models.MatchView{
			Match: m,
			Users: []models.UserProfile{profiles[m.UserA], profiles[m.UserB]},
			Idea:  ideas[m.IdeaID],
		})
	}
	return views, nil
}

func (r *resolver) requestViews(ctx context.Context, reqs []models.Request) ([]models.RequestView, error) {
	userIDs := make([]string, 0, len(reqs)*2)
	ideaIDs := make([]string, 0, len(reqs))
	for _, req := range reqs {
		userIDs = append(userIDs, req.RequesterID, req.IdeaOwnerID)
		ideaIDs = append(ideaIDs, req.IdeaID)
	}
	profiles, err := r.profiles(ctx, userIDs...)
	if err != nil {
		return nil, err
	}
	ideas, err := r.ideaSummaries(ctx, ideaIDs...)
	if err != nil {
		return nil, err
	}

	views := make([]models.RequestView, 0, len(reqs))
	for _, req := range reqs {
		views = append(views, models.RequestView{
			Request:   req,
			Requester: profiles[req.RequesterID],
			Owner:     profiles[req.IdeaOwnerID],
			Idea:      ideas[req.IdeaID],
		})
	}
	return views, nil
}

// internal logs an unexpected failure and returns the opaque error handed to callers.
func (r *resolver) internal(op string, err error, fields ...interface{}) error {
	r.log.Errorw(op+" failed", append(fields, "error", err)...)
	return apperrors.Internal(err)
}
